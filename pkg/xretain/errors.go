package xretain

import "errors"

var (
	// ErrNilCatalog 表示编目器参数为 nil。
	ErrNilCatalog = errors.New("xretain: catalog is required")

	// ErrAlreadyScheduled 表示清扫器已经安排了周期任务。
	ErrAlreadyScheduled = errors.New("xretain: sweep already scheduled")

	// ErrInvalidPolicy 表示保留策略包含负值。
	ErrInvalidPolicy = errors.New("xretain: invalid policy")
)
