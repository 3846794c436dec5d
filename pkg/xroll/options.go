package xroll

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/logkit/pkg/xcatalog"
)

// Option Writer 配置选项。
type Option func(*Writer)

// WithMaxFileSize 设置单文件大小上限（字节）。0 表示不限制。负值被忽略。
func WithMaxFileSize(n int64) Option {
	return func(w *Writer) {
		if n >= 0 {
			w.maxFileSize = n
		}
	}
}

// WithRollingFrequency 设置按时长滚动的周期。非正值表示不按时长滚动。
func WithRollingFrequency(d time.Duration) Option {
	return func(w *Writer) {
		w.rollFrequency = d
	}
}

// WithReuseExistingFiles 控制启动时是否接续上一次会话遗留的未归档文件。
// 默认接续（true）。设为 false 时首次写入前无条件归档遗留文件，
// 永不向前次会话的文件追加。
func WithReuseExistingFiles(reuse bool) Option {
	return func(w *Writer) {
		w.reuseExisting = reuse
	}
}

// WithRollPredicate 注入滚动覆盖谓词：返回 true 时当前文件立即失去
// 资格，下次需要文件时滚动。谓词在写入器的串行上下文中调用，
// 不得阻塞，不得回调写入器自身的方法。
func WithRollPredicate(fn func(*xcatalog.Record) bool) Option {
	return func(w *Writer) {
		w.rollOverride = fn
	}
}

// WithFileHeader 设置新文件创建时写入的头部字节。
func WithFileHeader(header []byte) Option {
	return func(w *Writer) {
		w.header = header
	}
}

// WithLogger 设置内部诊断日志记录器。
// 默认使用 slog.Default()。传入 nil 将被忽略。
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithOnArchived 设置文件归档通知回调，参数为归档后的文件路径。
// 回调在后台 goroutine 执行，与后续写入无顺序保证。
func WithOnArchived(fn func(path string)) Option {
	return func(w *Writer) {
		w.onArchived = fn
	}
}

// WithOnFileCreated 设置新文件创建通知回调。
// 典型用途是触发一次保留策略清扫。回调在后台 goroutine 执行。
func WithOnFileCreated(fn func(path string)) Option {
	return func(w *Writer) {
		w.onFileCreated = fn
	}
}

// WithMeterProvider 启用 OTel 指标收集。nil 表示不收集（默认）。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(w *Writer) {
		w.meterProvider = provider
	}
}
