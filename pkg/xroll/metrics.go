package xroll

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// instrumentationVersion 仪表化版本，随库版本演进。
const instrumentationVersion = "0.1.0"

// 设计决策: 指标前缀使用 "xroll.*"。各包自治命名，与 OTel Meter
// scope name 保持一致（Meter("xroll")），避免与 scope 名称冗余嵌套。
const (
	// metricNameWriteTotal 写入次数计数器
	metricNameWriteTotal = "xroll.write.total"
	// metricNameWriteBytes 写入字节数计数器
	metricNameWriteBytes = "xroll.write.bytes"
	// metricNameRollTotal 滚动次数计数器
	metricNameRollTotal = "xroll.roll.total"
	// metricNameWriteErrors 写入失败次数计数器
	metricNameWriteErrors = "xroll.write.errors"

	// attrRollReason 滚动原因属性（size/age/external/forced/override）
	attrRollReason = "reason"
)

// Metrics 写入器指标收集器。
type Metrics struct {
	meter       metric.Meter
	writeTotal  metric.Int64Counter
	writeBytes  metric.Int64Counter
	rollTotal   metric.Int64Counter
	writeErrors metric.Int64Counter
}

// NewMetrics 创建指标收集器。
// meterProvider 为 nil 时返回 nil（不收集指标），所有 Record 方法
// 对 nil 接收者安全。
func NewMetrics(meterProvider metric.MeterProvider) (*Metrics, error) {
	if meterProvider == nil {
		return nil, nil
	}

	m := &Metrics{}
	m.meter = meterProvider.Meter("xroll",
		metric.WithInstrumentationVersion(instrumentationVersion),
	)

	var err error
	if m.writeTotal, err = m.meter.Int64Counter(metricNameWriteTotal,
		metric.WithDescription("日志写入次数"), metric.WithUnit("{write}")); err != nil {
		return nil, err
	}
	if m.writeBytes, err = m.meter.Int64Counter(metricNameWriteBytes,
		metric.WithDescription("日志写入字节数"), metric.WithUnit("By")); err != nil {
		return nil, err
	}
	if m.rollTotal, err = m.meter.Int64Counter(metricNameRollTotal,
		metric.WithDescription("日志文件滚动次数"), metric.WithUnit("{roll}")); err != nil {
		return nil, err
	}
	if m.writeErrors, err = m.meter.Int64Counter(metricNameWriteErrors,
		metric.WithDescription("日志写入失败次数"), metric.WithUnit("{error}")); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordWrite 记录一次成功写入。
func (m *Metrics) RecordWrite(n int) {
	if m == nil {
		return
	}
	ctx := context.Background()
	m.writeTotal.Add(ctx, 1)
	m.writeBytes.Add(ctx, int64(n))
}

// RecordRoll 记录一次文件滚动及其触发原因。
func (m *Metrics) RecordRoll(reason string) {
	if m == nil {
		return
	}
	m.rollTotal.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(attrRollReason, reason)))
}

// RecordWriteError 记录一次写入失败。
func (m *Metrics) RecordWriteError() {
	if m == nil {
		return
	}
	m.writeErrors.Add(context.Background(), 1)
}
