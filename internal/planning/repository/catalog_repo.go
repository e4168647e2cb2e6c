package repository

import (
	"github.com/telaros/tela-erp/internal/planning/entity"
	"gorm.io/gorm"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCommonBOM 批量查询产品级BOM条目
func (r *CatalogRepository) ListCommonBOM(productIDs []string) ([]entity.BOMCommonEntry, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var entries []entity.BOMCommonEntry
	err := r.db.Where("product_id IN ?", productIDs).
		Order("product_id, material_id").
		Find(&entries).Error
	return entries, err
}

// ListVariationBOM 批量查询变体级BOM条目
func (r *CatalogRepository) ListVariationBOM(variantIDs []string) ([]entity.BOMVariationEntry, error) {
	if len(variantIDs) == 0 {
		return nil, nil
	}
	var entries []entity.BOMVariationEntry
	err := r.db.Where("product_variant_id IN ?", variantIDs).
		Order("product_variant_id, material_id").
		Find(&entries).Error
	return entries, err
}

// ListMaterials 批量查询物料（含当前库存快照）
func (r *CatalogRepository) ListMaterials(ids []string) ([]entity.Material, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var materials []entity.Material
	err := r.db.Where("id IN ? AND deleted_at IS NULL", ids).Find(&materials).Error
	return materials, err
}

// ListRelationships 批量查询物料的供货关系
func (r *CatalogRepository) ListRelationships(materialIDs []string) ([]entity.SupplierRelationship, error) {
	if len(materialIDs) == 0 {
		return nil, nil
	}
	var rels []entity.SupplierRelationship
	err := r.db.Where("material_id IN ?", materialIDs).
		Order("material_id, supplier_id").
		Find(&rels).Error
	return rels, err
}
