package xcatalog

import "errors"

var (
	// ErrEmptyDir 表示日志目录参数为空。
	ErrEmptyDir = errors.New("xcatalog: directory is required")

	// ErrEmptyAppID 表示应用标识参数为空。
	ErrEmptyAppID = errors.New("xcatalog: app id is required")

	// ErrInvalidAppID 表示应用标识包含非法字符（路径分隔符或空字节）。
	ErrInvalidAppID = errors.New("xcatalog: invalid app id")

	// ErrBadTimestamp 表示时间戳片段无法按约定格式解析。
	ErrBadTimestamp = errors.New("xcatalog: malformed timestamp")

	// ErrCreateExhausted 表示连续多次非冲突性创建失败，放弃本次创建。
	ErrCreateExhausted = errors.New("xcatalog: file creation retries exhausted")
)
