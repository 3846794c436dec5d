package xmark

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isNoAttr 判断错误是否表示"属性不存在"。
// Linux 的 removexattr 对缺失属性返回 ENODATA。
func isNoAttr(err error) bool {
	return errors.Is(err, unix.ENODATA)
}
