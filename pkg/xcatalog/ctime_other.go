//go:build !linux && !darwin

package xcatalog

import (
	"os"
	"time"
)

// creationTimeFromInfo 提取文件创建时间。
// 其余平台统一降级为修改时间。
func creationTimeFromInfo(info os.FileInfo) time.Time {
	return info.ModTime()
}
