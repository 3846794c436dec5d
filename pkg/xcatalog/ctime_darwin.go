package xcatalog

import (
	"os"
	"syscall"
	"time"
)

// creationTimeFromInfo 提取文件创建时间。
// macOS 的 stat 直接提供出生时间；提取失败时降级为修改时间。
func creationTimeFromInfo(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
	}
	return info.ModTime()
}
