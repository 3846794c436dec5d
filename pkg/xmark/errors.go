package xmark

import "errors"

var (
	// ErrEmptyPath 表示必需的文件路径参数为空。
	ErrEmptyPath = errors.New("xmark: path is required")

	// ErrUnsupported 表示当前平台或文件系统不支持扩展属性。
	ErrUnsupported = errors.New("xmark: extended attributes not supported")

	// ErrRenameFailed 表示文件名中缀标记的重命名操作失败。
	ErrRenameFailed = errors.New("xmark: rename failed")
)
