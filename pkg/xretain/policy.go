package xretain

import (
	"fmt"

	"github.com/omeyang/logkit/pkg/xcatalog"
)

// Policy 保留策略配置。零值表示完全不限制。
type Policy struct {
	// MaxFileCount 保留的文件数量上限。0 表示不按数量限制。
	MaxFileCount int

	// DiskQuotaBytes 日志目录的磁盘配额（字节）。0 表示不按配额限制。
	DiskQuotaBytes int64
}

// Validate 校验策略。负值在构造期拒绝。
func (p Policy) Validate() error {
	if p.MaxFileCount < 0 {
		return fmt.Errorf("%w: MaxFileCount = %d", ErrInvalidPolicy, p.MaxFileCount)
	}
	if p.DiskQuotaBytes < 0 {
		return fmt.Errorf("%w: DiskQuotaBytes = %d", ErrInvalidPolicy, p.DiskQuotaBytes)
	}
	return nil
}

// unlimited 判断策略是否完全不限制（清扫可以直接跳过）。
func (p Policy) unlimited() bool {
	return p.MaxFileCount == 0 && p.DiskQuotaBytes == 0
}

// Plan 计算应删除的记录。
//
// records 必须按时间戳降序（最新在前，[xcatalog.Catalog.Records] 的产出
// 顺序）。返回裁剪点之后的所有记录；纯函数，不修改文件系统。
//
// 大小读取失败的记录按 0 字节累计——保留策略是尽力而为的清理，
// 单个 stat 失败不应让整个计算报错。
func Plan(records []*xcatalog.Record, p Policy) []*xcatalog.Record {
	if len(records) == 0 || p.unlimited() {
		return nil
	}

	cut := len(records)

	// 配额裁剪点：累计大小首次超过配额的下标
	if p.DiskQuotaBytes > 0 {
		var used int64
		for i, rec := range records {
			size, err := rec.Size()
			if err != nil {
				size = 0
			}
			used += size
			if used > p.DiskQuotaBytes {
				cut = i
				break
			}
		}
	}

	// 数量裁剪点：两者同时生效时取更激进者（min）
	if p.MaxFileCount > 0 && p.MaxFileCount < cut {
		cut = p.MaxFileCount
	}

	// 活跃文件保护：最新文件未归档时永远不是删除候选
	if cut == 0 && !records[0].IsArchived() {
		cut = 1
	}

	if cut >= len(records) {
		return nil
	}
	return records[cut:]
}
