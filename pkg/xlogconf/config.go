package xlogconf

import (
	"fmt"
	"time"

	"github.com/omeyang/logkit/pkg/xlogmgr"
	"github.com/omeyang/logkit/pkg/xretain"
)

// Config 日志子系统配置。
type Config struct {
	// Dir 日志目录。
	Dir string `koanf:"dir"`

	// AppID 应用标识，日志文件名的第一段。
	AppID string `koanf:"app_id"`

	// Rolling 滚动配置。
	Rolling RollingConfig `koanf:"rolling"`

	// Retention 保留配置。
	Retention RetentionConfig `koanf:"retention"`
}

// RollingConfig 滚动配置。
type RollingConfig struct {
	// MaxFileSizeBytes 单文件大小上限（字节）。0 表示不限制。
	MaxFileSizeBytes int64 `koanf:"max_file_size_bytes"`

	// FrequencySeconds 按时长滚动的周期（秒）。非正值表示不按时长滚动。
	FrequencySeconds int64 `koanf:"frequency_seconds"`

	// ReuseExistingFiles 启动时是否接续上一次会话的未归档文件。
	// 缺省接续（nil 视为 true）。
	ReuseExistingFiles *bool `koanf:"reuse_existing_files"`
}

// RetentionConfig 保留配置。
type RetentionConfig struct {
	// MaxFileCount 保留的文件数量上限。0 表示不按数量限制。
	MaxFileCount int `koanf:"max_file_count"`

	// DiskQuotaBytes 日志目录磁盘配额（字节）。0 表示不按配额限制。
	DiskQuotaBytes int64 `koanf:"disk_quota_bytes"`

	// SweepSchedule 周期清扫的 cron 表达式（如 "@every 1h"）。
	// 为空时清扫仅由新文件创建触发。
	SweepSchedule string `koanf:"sweep_schedule"`
}

// Validate 校验配置。目录与应用标识必填，数值不得为负。
func (c *Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("%w: dir is required", ErrInvalidConfig)
	}
	if c.AppID == "" {
		return fmt.Errorf("%w: app_id is required", ErrInvalidConfig)
	}
	if c.Rolling.MaxFileSizeBytes < 0 {
		return fmt.Errorf("%w: rolling.max_file_size_bytes = %d",
			ErrInvalidConfig, c.Rolling.MaxFileSizeBytes)
	}
	if err := c.retentionPolicy().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Options 转换为管理器选项。不包含 Dir 和 AppID——它们是
// [xlogmgr.New] 的位置参数。
func (c *Config) Options() []xlogmgr.Option {
	opts := []xlogmgr.Option{
		xlogmgr.WithMaxFileSize(c.Rolling.MaxFileSizeBytes),
		xlogmgr.WithRollingFrequency(time.Duration(c.Rolling.FrequencySeconds) * time.Second),
		xlogmgr.WithRetentionPolicy(c.retentionPolicy()),
	}
	if c.Rolling.ReuseExistingFiles != nil {
		opts = append(opts, xlogmgr.WithReuseExistingFiles(*c.Rolling.ReuseExistingFiles))
	}
	if c.Retention.SweepSchedule != "" {
		opts = append(opts, xlogmgr.WithSweepSchedule(c.Retention.SweepSchedule))
	}
	return opts
}

// Manager 按配置组装一个未启动的管理器。
func (c *Config) Manager(extra ...xlogmgr.Option) (*xlogmgr.Manager, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return xlogmgr.New(c.Dir, c.AppID, append(c.Options(), extra...)...)
}

// retentionPolicy 组装保留策略。
func (c *Config) retentionPolicy() xretain.Policy {
	return xretain.Policy{
		MaxFileCount:   c.Retention.MaxFileCount,
		DiskQuotaBytes: c.Retention.DiskQuotaBytes,
	}
}
