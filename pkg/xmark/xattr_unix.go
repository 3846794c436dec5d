//go:build linux || darwin

package xmark

import (
	"errors"

	"golang.org/x/sys/unix"
)

// 系统调用函数变量，支持测试中 mock 替换以覆盖错误路径。
// 设计决策: 使用包级变量 mock 模式（与 xsys 一致），对此规模的包足够简洁。
// 注意：mock 测试不可使用 t.Parallel()，因为替换包级变量会引发竞态。
var (
	setxattrFn    = unix.Setxattr
	getxattrFn    = unix.Getxattr
	removexattrFn = unix.Removexattr
)

// xattrSupported 探测目录所在文件系统是否支持用户扩展属性。
// 在目录本身设置并移除探测属性，任何失败都视为不支持。
func xattrSupported(dir string) bool {
	if dir == "" {
		return false
	}
	if err := setxattrFn(dir, probeAttr, []byte{1}, 0); err != nil {
		return false
	}
	// 清理失败不影响判定：属性已成功写入说明文件系统支持
	_ = removexattrFn(dir, probeAttr)
	return true
}

// getArchivedAttr 查询归档属性是否存在。
func getArchivedAttr(path string) bool {
	var buf [1]byte
	_, err := getxattrFn(path, archivedAttr, buf[:])
	// ERANGE 表示属性存在但缓冲区不足，同样视为已归档
	return err == nil || errors.Is(err, unix.ERANGE)
}

// setArchivedAttr 写入归档属性。属性已存在时覆盖（幂等）。
func setArchivedAttr(path string) error {
	if err := setxattrFn(path, archivedAttr, []byte{1}, 0); err != nil {
		if errors.Is(err, unix.ENOTSUP) {
			return ErrUnsupported
		}
		return err
	}
	return nil
}

// removeArchivedAttr 移除归档属性。属性不存在视为成功（幂等）。
func removeArchivedAttr(path string) error {
	if err := removexattrFn(path, archivedAttr); err != nil {
		if isNoAttr(err) {
			return nil
		}
		if errors.Is(err, unix.ENOTSUP) {
			return ErrUnsupported
		}
		return err
	}
	return nil
}
