package engine

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func testCatalog() Catalog {
	return Catalog{
		Variants: map[string]Variant{
			"var-shirt-m-red":  {ID: "var-shirt-m-red", ProductID: "prod-shirt"},
			"var-shirt-l-blue": {ID: "var-shirt-l-blue", ProductID: "prod-shirt"},
			"var-orphan":       {ID: "var-orphan", ProductID: "prod-nobom"},
		},
		CommonBOM: map[string][]BOMEntry{
			"prod-shirt": {
				{MaterialID: "mat-fabric", Unit: "m", QtyPerUnit: decimal.NewFromInt(2)},
				{MaterialID: "mat-thread", Unit: "m", QtyPerUnit: decimal.NewFromInt(50)},
				{MaterialID: "mat-button", Unit: "pcs", QtyPerUnit: decimal.NewFromInt(8)},
			},
		},
		VariationBOM: map[string][]BOMEntry{
			"var-shirt-l-blue": {
				// L码用料更多，替换产品级的2m
				{MaterialID: "mat-fabric", Unit: "m", QtyPerUnit: decimal.NewFromFloat(2.5)},
				// 蓝色独有的染料
				{MaterialID: "mat-dye-blue", Unit: "kg", QtyPerUnit: decimal.NewFromFloat(0.1)},
			},
		},
		Materials: map[string]MaterialInfo{
			"mat-fabric":   {Code: "FAB-001", Name: "Cotton fabric", Unit: "m"},
			"mat-thread":   {Code: "THR-001", Name: "Polyester thread", Unit: "m"},
			"mat-button":   {Code: "BTN-001", Name: "Button 12mm", Unit: "pcs"},
			"mat-dye-blue": {Code: "DYE-002", Name: "Blue dye", Unit: "kg"},
		},
	}
}

func TestResolveBOMCommonOnly(t *testing.T) {
	catalog := testCatalog()

	entries, err := ResolveBOM(catalog, "var-shirt-m-red")
	if err != nil {
		t.Fatalf("ResolveBOM failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if !entries[0].QtyPerUnit.Equal(decimal.NewFromInt(2)) {
		t.Errorf("expected fabric qty 2, got %s", entries[0].QtyPerUnit)
	}
}

func TestResolveBOMVariationReplacesCommon(t *testing.T) {
	catalog := testCatalog()

	entries, err := ResolveBOM(catalog, "var-shirt-l-blue")
	if err != nil {
		t.Fatalf("ResolveBOM failed: %v", err)
	}
	// 3个产品级物料 + 1个变体特有物料；fabric被替换而不是累加
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	byMaterial := make(map[string]BOMEntry)
	for _, e := range entries {
		byMaterial[e.MaterialID] = e
	}
	if !byMaterial["mat-fabric"].QtyPerUnit.Equal(decimal.NewFromFloat(2.5)) {
		t.Errorf("variation entry should replace common entry: got %s", byMaterial["mat-fabric"].QtyPerUnit)
	}
	if _, ok := byMaterial["mat-dye-blue"]; !ok {
		t.Error("variant-specific material missing from resolved BOM")
	}
}

func TestResolveBOMNotFound(t *testing.T) {
	catalog := testCatalog()

	_, err := ResolveBOM(catalog, "var-orphan")
	var notFound *BOMNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected BOMNotFoundError, got %v", err)
	}
	if notFound.ProductVariantID != "var-orphan" {
		t.Errorf("error should name the variant, got %s", notFound.ProductVariantID)
	}

	_, err = ResolveBOM(catalog, "var-unknown")
	if !errors.As(err, &notFound) {
		t.Fatalf("unknown variant should yield BOMNotFoundError, got %v", err)
	}
}
