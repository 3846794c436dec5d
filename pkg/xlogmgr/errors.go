package xlogmgr

import "errors"

var (
	// ErrNoDefault 表示尚未通过 SetDefault 注册默认实例。
	ErrNoDefault = errors.New("xlogmgr: no default manager registered")
)
