package xlogmgr

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/logkit/pkg/xmark"
	"github.com/omeyang/logkit/pkg/xretain"
)

// Option Manager 配置选项。
type Option func(*Manager)

// WithLogger 设置内部诊断日志记录器，透传给写入器和清扫器。
// 默认使用 slog.Default()。传入 nil 将被忽略。
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMaxFileSize 设置单文件大小上限（字节）。0 表示不限制。
func WithMaxFileSize(n int64) Option {
	return func(m *Manager) {
		if n >= 0 {
			m.maxFileSize = n
		}
	}
}

// WithRollingFrequency 设置按时长滚动的周期。非正值表示不按时长滚动。
func WithRollingFrequency(d time.Duration) Option {
	return func(m *Manager) {
		m.rollFrequency = d
	}
}

// WithReuseExistingFiles 控制启动时是否接续上一次会话遗留的未归档文件。
// 默认接续。
func WithReuseExistingFiles(reuse bool) Option {
	return func(m *Manager) {
		m.reuseExisting = reuse
	}
}

// WithRetentionPolicy 设置保留策略。零值策略表示不做保留清理。
func WithRetentionPolicy(p xretain.Policy) Option {
	return func(m *Manager) {
		m.policy = p
	}
}

// WithSweepSchedule 按 cron 表达式追加周期保留清扫（如 "@every 1h"）。
// 不设置时清扫仅由新文件创建触发。表达式合法性在 Start 时校验。
func WithSweepSchedule(spec string) Option {
	return func(m *Manager) {
		m.sweepSpec = spec
	}
}

// WithMarker 指定归档标记实现。默认按文件系统能力探测选择。
func WithMarker(marker xmark.Marker) Option {
	return func(m *Manager) {
		m.marker = marker
	}
}

// WithOnFileArchived 设置文件归档通知回调。
// 尽力而为的通知，与后续写入无顺序保证。
func WithOnFileArchived(fn func(path string)) Option {
	return func(m *Manager) {
		m.onFileArchived = fn
	}
}

// WithOnFileDeleted 设置文件删除通知回调。
// 尽力而为的通知，与后续写入无顺序保证。
func WithOnFileDeleted(fn func(path string)) Option {
	return func(m *Manager) {
		m.onFileDeleted = fn
	}
}

// WithMeterProvider 启用写入器的 OTel 指标收集。nil 表示不收集。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(m *Manager) {
		m.meterProvider = provider
	}
}
