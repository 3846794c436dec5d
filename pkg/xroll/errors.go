package xroll

import "errors"

var (
	// ErrNilCatalog 表示编目器参数为 nil。
	ErrNilCatalog = errors.New("xroll: catalog is required")
)
