package xcatalog

import (
	"os"
	"syscall"
	"time"
)

// creationTimeFromInfo 提取文件创建时间。
// Linux 的 stat 不暴露出生时间（btime 需要 statx），取 inode 变更时间
// 作为最近似值；提取失败时降级为修改时间。
func creationTimeFromInfo(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	}
	return info.ModTime()
}
