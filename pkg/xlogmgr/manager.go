package xlogmgr

import (
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/logkit/pkg/xcatalog"
	"github.com/omeyang/logkit/pkg/xmark"
	"github.com/omeyang/logkit/pkg/xretain"
	"github.com/omeyang/logkit/pkg/xroll"
)

// lineTimestampLayout 每条日志行的时间戳格式。
const lineTimestampLayout = "2006-01-02 15:04:05.000"

// Manager 日志子系统门面。
//
// 生命周期：New 校验配置并准备编目器；Start 组装写入器与清扫器；
// Stop 排空队列、落盘并释放全部资源。Start/Stop 可成对反复调用，
// 均幂等。WriteLog 在未启动时被静默丢弃。
type Manager struct {
	cat    *xcatalog.Catalog
	logger *slog.Logger

	maxFileSize    int64
	rollFrequency  time.Duration
	reuseExisting  bool
	policy         xretain.Policy
	sweepSpec      string
	marker         xmark.Marker
	meterProvider  metric.MeterProvider
	onFileArchived func(string)
	onFileDeleted  func(string)

	mu      sync.Mutex
	writer  atomic.Pointer[xroll.Writer]
	sweeper *xretain.Sweeper
	running atomic.Bool
}

// New 创建管理器。目录与应用标识的合法性、保留策略的合法性都在此处
// 校验——配置错误在构造期拒绝，不留到运行期。
func New(dir, appID string, opts ...Option) (*Manager, error) {
	m := &Manager{
		logger:        slog.Default(),
		reuseExisting: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if err := m.policy.Validate(); err != nil {
		return nil, err
	}

	var catOpts []xcatalog.Option
	if m.marker != nil {
		catOpts = append(catOpts, xcatalog.WithMarker(m.marker))
	}
	cat, err := xcatalog.New(dir, appID, catOpts...)
	if err != nil {
		return nil, err
	}
	m.cat = cat
	return m, nil
}

// Start 组装写入器与清扫器，开始接受日志。已启动时是空操作。
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running.Load() {
		return nil
	}

	sweeper, err := xretain.NewSweeper(m.cat, m.policy,
		xretain.WithLogger(m.logger),
		xretain.WithOnDeleted(m.onFileDeleted),
	)
	if err != nil {
		return err
	}

	writer, err := xroll.New(m.cat,
		xroll.WithLogger(m.logger),
		xroll.WithMaxFileSize(m.maxFileSize),
		xroll.WithRollingFrequency(m.rollFrequency),
		xroll.WithReuseExistingFiles(m.reuseExisting),
		xroll.WithMeterProvider(m.meterProvider),
		xroll.WithOnArchived(m.onFileArchived),
		// 新文件创建触发一次保留清扫——清扫永远在写路径之外
		xroll.WithOnFileCreated(func(string) { sweeper.TriggerSweep() }),
	)
	if err != nil {
		sweeper.Stop()
		return err
	}

	if m.sweepSpec != "" {
		if err := sweeper.Schedule(m.sweepSpec); err != nil {
			_ = writer.Close()
			sweeper.Stop()
			return err
		}
	}

	m.sweeper = sweeper
	m.writer.Store(writer)
	m.running.Store(true)
	return nil
}

// Stop 排空写入队列、落盘、关闭文件并释放清扫器。幂等。
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running.Load() {
		return nil
	}
	m.running.Store(false)

	// 先关写入器：之后不再有新文件创建触发清扫
	if w := m.writer.Swap(nil); w != nil {
		_ = w.Close()
	}
	if m.sweeper != nil {
		m.sweeper.Stop()
		m.sweeper = nil
	}
	return nil
}

// WriteLog 记录一条带来源标签的日志。fire-and-forget：空 tag 或空
// 文本被静默丢弃，未启动时被静默丢弃，任何内部错误都不传播。
func (m *Manager) WriteLog(tag, text string) {
	if tag == "" || text == "" {
		return
	}
	w := m.writer.Load()
	if w == nil {
		return
	}

	var b strings.Builder
	b.Grow(len(lineTimestampLayout) + len(tag) + len(text) + 4)
	b.WriteString(time.Now().Format(lineTimestampLayout))
	b.WriteString(" [")
	b.WriteString(tag)
	b.WriteString("] ")
	b.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		b.WriteByte('\n')
	}
	w.Write([]byte(b.String()))
}

// Flush 等待已入队的写入全部落盘。未启动时是空操作。
func (m *Manager) Flush() {
	if w := m.writer.Load(); w != nil {
		w.Flush()
	}
}

// CurrentLogFilePath 返回当前活跃日志文件路径；无活跃文件或未启动时
// 返回空串。
func (m *Manager) CurrentLogFilePath() string {
	w := m.writer.Load()
	if w == nil {
		return ""
	}
	return w.CurrentFilePath()
}

// IsLogging 报告管理器是否处于 Start 与 Stop 之间的运行状态。
func (m *Manager) IsLogging() bool {
	return m.running.Load()
}

// Dir 返回日志目录。
func (m *Manager) Dir() string { return m.cat.Dir() }

// AppID 返回应用标识。
func (m *Manager) AppID() string { return m.cat.AppID() }
