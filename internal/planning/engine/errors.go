package engine

import "fmt"

// InvalidRunParametersError 致命输入错误，运行转FAILED
type InvalidRunParametersError struct {
	Reason string
}

func (e *InvalidRunParametersError) Error() string {
	return fmt.Sprintf("invalid run parameters: %s", e.Reason)
}

// BOMNotFoundError 变体既无产品级也无变体级BOM条目
type BOMNotFoundError struct {
	ProductVariantID string
}

func (e *BOMNotFoundError) Error() string {
	return fmt.Sprintf("no BOM defined for product variant %s", e.ProductVariantID)
}

// NoSupplierError 物料没有任何供货关系
type NoSupplierError struct {
	MaterialID string
}

func (e *NoSupplierError) Error() string {
	return fmt.Sprintf("no supplier relationship for material %s", e.MaterialID)
}
