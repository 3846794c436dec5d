package xroll

import (
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/logkit/pkg/xcatalog"
)

const (
	// opQueueDepth 操作队列深度。队列满时写入方短暂阻塞（背压），
	// 不丢消息。
	opQueueDepth = 256

	// maxLoggedWriteErrors 写入失败的日志记录上限。
	// 超过后静默丢弃，避免持续损坏的文件系统造成日志风暴。
	maxLoggedWriteErrors = 10

	// appendPerm 追加打开文件时的权限（与编目器创建权限一致）。
	appendPerm = 0o600
)

// Writer 滚动日志文件写入器。
//
// 见包文档的串行执行模型：带 handle 前缀的方法以及所有小写状态字段
// 仅在操作循环 goroutine 内访问，导出方法通过入队与之交互。
type Writer struct {
	cat           *xcatalog.Catalog
	logger        *slog.Logger
	metrics       *Metrics
	meterProvider metric.MeterProvider
	header        []byte

	onArchived    func(string)
	onFileCreated func(string)
	rollOverride  func(*xcatalog.Record) bool

	ops    chan func()
	done   chan struct{}
	closed atomic.Bool
	bg     sync.WaitGroup

	watcher *fsnotify.Watcher

	// 以下字段仅在操作循环内访问
	maxFileSize   int64
	rollFrequency time.Duration
	reuseExisting bool
	file          *os.File
	rec           *xcatalog.Record
	offset        int64
	birth         time.Time
	ageTimer      *time.Timer
	writeErrs     int
	stopping      bool
}

// New 创建写入器并启动其操作循环。
// 文件系统监视不可用时降级运行（仅记录警告，失去外部变更检测能力）。
func New(cat *xcatalog.Catalog, opts ...Option) (*Writer, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}

	w := &Writer{
		cat:           cat,
		logger:        slog.Default(),
		reuseExisting: true,
		ops:           make(chan func(), opQueueDepth),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}

	m, err := NewMetrics(w.meterProvider)
	if err != nil {
		return nil, err
	}
	w.metrics = m

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("file watch unavailable, external-change rolls disabled",
			slog.Any("error", err))
	} else {
		w.watcher = watcher
		w.bg.Add(1)
		go w.runWatchPump()
	}

	go w.loop()
	return w, nil
}

// Write 追加一条日志。fire-and-forget：永不返回错误，空输入是空操作，
// 关闭后的写入被静默丢弃。同一写入器的所有写入严格有序。
func (w *Writer) Write(p []byte) {
	if len(p) == 0 || w.closed.Load() {
		return
	}
	// 调用方可能复用缓冲区，入队前拷贝
	buf := make([]byte, len(p))
	copy(buf, p)
	w.enqueue(func() { w.handleWrite(buf) })
}

// ForceRoll 触发一次环境强制滚动：当前文件（若有）立即归档，
// 新文件在下次写入时惰性创建。
func (w *Writer) ForceRoll() {
	w.enqueue(func() {
		if w.file != nil {
			w.handleRoll("forced")
		}
	})
}

// SetMaxFileSize 更新单文件大小上限并立即复查当前文件。
//
// 设计决策: 不依赖属性观察机制——setter 更新状态后直接入队依赖复查，
// 当前文件已超新上限时立即滚动。
func (w *Writer) SetMaxFileSize(n int64) {
	if n < 0 {
		return
	}
	w.enqueue(func() {
		w.maxFileSize = n
		if w.file != nil && n > 0 && w.offset >= n {
			w.handleRoll("size")
		}
	})
}

// SetRollingFrequency 更新按时长滚动的周期并重新武装定时器。
// 当前文件按新周期已经过期时立即滚动。
func (w *Writer) SetRollingFrequency(d time.Duration) {
	w.enqueue(func() {
		w.rollFrequency = d
		w.cancelAgeTimer()
		if w.file == nil {
			return
		}
		if d > 0 && time.Since(w.birth) >= d {
			w.handleRoll("age")
			return
		}
		w.armAgeTimer()
	})
}

// MaxFileSize 返回当前生效的大小上限。与串行上下文同步，
// 反映所有先行入队的修改。
func (w *Writer) MaxFileSize() int64 {
	reply := make(chan int64, 1)
	w.enqueue(func() { reply <- w.maxFileSize })
	select {
	case v := <-reply:
		return v
	case <-w.done:
		return 0
	}
}

// RollingFrequency 返回当前生效的滚动周期。与串行上下文同步。
func (w *Writer) RollingFrequency() time.Duration {
	reply := make(chan time.Duration, 1)
	w.enqueue(func() { reply <- w.rollFrequency })
	select {
	case v := <-reply:
		return v
	case <-w.done:
		return 0
	}
}

// CurrentFilePath 返回当前活跃文件路径；无活跃文件时返回空串。
func (w *Writer) CurrentFilePath() string {
	reply := make(chan string, 1)
	w.enqueue(func() {
		if w.rec != nil {
			reply <- w.rec.Path()
		} else {
			reply <- ""
		}
	})
	select {
	case p := <-reply:
		return p
	case <-w.done:
		return ""
	}
}

// Flush 等待队列中先行入队的写入全部落盘后返回。幂等，任意时刻可调用。
func (w *Writer) Flush() {
	reply := make(chan struct{})
	w.enqueue(func() {
		w.handleSync()
		close(reply)
	})
	select {
	case <-reply:
	case <-w.done:
	}
}

// Close 排空先行入队的工作、落盘并关闭文件句柄、释放定时器与监视。
// 幂等；从未打开过文件时同样安全。当前文件保持未归档，
// 供下次会话接续（见 [WithReuseExistingFiles]）。
func (w *Writer) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		<-w.done
		w.bg.Wait()
		return nil
	}
	w.enqueue(func() { w.stopping = true })
	<-w.done
	w.bg.Wait()
	return nil
}

// enqueue 向操作循环提交一个操作。循环已退出时放弃提交。
func (w *Writer) enqueue(op func()) {
	select {
	case w.ops <- op:
	case <-w.done:
	}
}

// loop 操作循环：串行消费所有变更操作，保证写入与滚动的全序。
func (w *Writer) loop() {
	defer close(w.done)
	for op := range w.ops {
		op()
		if w.stopping {
			break
		}
	}
	w.handleShutdown()
}

// ============================================================
// 以下方法仅在操作循环内调用
// ============================================================

// handleWrite 追加字节到当前文件，写后做 O(1) 大小检查。
func (w *Writer) handleWrite(p []byte) {
	if err := w.ensureCurrentFile(); err != nil {
		w.reportWriteError(err)
		return
	}

	n, err := w.file.Write(p)
	w.offset += int64(n)
	if err != nil {
		w.reportWriteError(err)
		return
	}
	w.metrics.RecordWrite(len(p))

	// 大小滚动在写完成后同步检查：比较偏移量，不重新 stat。
	// 本条写入完整落在旧文件，下一条写入才落新文件。
	if w.maxFileSize > 0 && w.offset >= w.maxFileSize {
		w.handleRoll("size")
	}
}

// ensureCurrentFile 确保存在可写的当前文件。
//
// 已持有文件时惰性求值滚动谓词；无文件时查询目录最新记录：
// 未归档且未失格则接续追加，否则归档遗留文件并新建。
func (w *Writer) ensureCurrentFile() error {
	if w.file != nil {
		reason, due := w.dueForRoll()
		if !due {
			return nil
		}
		w.handleRoll(reason)
	}

	records, err := w.cat.Records()
	if err != nil {
		// 枚举失败不阻止新建：目录可能刚被外部清空
		w.logger.Warn("enumerate log directory failed", slog.Any("error", err))
	} else if len(records) > 0 && !records[0].IsArchived() {
		leftover := records[0]
		if w.reuseExisting && !w.disqualified(leftover) {
			if err := w.openExisting(leftover); err == nil {
				return nil
			}
			w.logger.Warn("reuse existing log file failed",
				slog.String("path", leftover.Path()), slog.Any("error", err))
		}
		// 不接续或已失格：归档前次会话的遗留文件
		w.handleArchive(leftover)
	}

	return w.createNewFile()
}

// dueForRoll 判定当前文件是否应滚动，返回触发原因。
func (w *Writer) dueForRoll() (string, bool) {
	if w.rollOverride != nil && w.rollOverride(w.rec) {
		return "override", true
	}
	if w.maxFileSize > 0 && w.offset >= w.maxFileSize {
		return "size", true
	}
	if w.rollFrequency > 0 && time.Since(w.birth) >= w.rollFrequency {
		return "age", true
	}
	return "", false
}

// disqualified 判定遗留文件是否因滚动谓词失去接续资格。
func (w *Writer) disqualified(rec *xcatalog.Record) bool {
	if w.rollOverride != nil && w.rollOverride(rec) {
		return true
	}
	if w.maxFileSize > 0 {
		if size, err := rec.Size(); err == nil && size >= w.maxFileSize {
			return true
		}
	}
	if w.rollFrequency > 0 && time.Since(recordBirth(rec)) >= w.rollFrequency {
		return true
	}
	return false
}

// openExisting 以追加模式接续一个未归档的遗留文件。
func (w *Writer) openExisting(rec *xcatalog.Record) error {
	f, err := os.OpenFile(rec.Path(), os.O_WRONLY|os.O_APPEND, appendPerm)
	if err != nil {
		return err
	}
	offset, err := rec.Size()
	if err != nil {
		offset = 0
	}
	w.adopt(f, rec, offset, recordBirth(rec))
	return nil
}

// createNewFile 创建并打开新日志文件。创建重试耗尽是硬失败，
// 写入器保持无当前文件状态，下次写入重试。
func (w *Writer) createNewFile() error {
	path, err := w.cat.CreateFile(w.header)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, appendPerm)
	if err != nil {
		return err
	}

	rec := xcatalog.NewRecord(path, w.cat.Marker())
	w.adopt(f, rec, int64(len(w.header)), time.Now())
	w.notify(w.onFileCreated, path)
	return nil
}

// adopt 接管一个打开的文件作为当前文件，武装定时器与监视。
func (w *Writer) adopt(f *os.File, rec *xcatalog.Record, offset int64, birth time.Time) {
	w.file = f
	w.rec = rec
	w.offset = offset
	w.birth = birth
	w.armAgeTimer()
	w.watch(rec.Path())
}

// handleRoll 滚动当前文件：撤监视、撤定时器、落盘关闭、归档、清状态。
// 新文件不在此处创建——下次写入惰性创建，无后续流量不产生空文件。
func (w *Writer) handleRoll(reason string) {
	if w.file == nil {
		return
	}

	w.unwatch(w.rec.Path())
	w.cancelAgeTimer()

	if err := w.file.Sync(); err != nil {
		w.logger.Debug("sync before roll failed", slog.Any("error", err))
	}
	if err := w.file.Close(); err != nil {
		w.logger.Warn("close rolled log file failed", slog.Any("error", err))
	}

	w.handleArchive(w.rec)
	w.metrics.RecordRoll(reason)

	w.file = nil
	w.rec = nil
	w.offset = 0
	w.birth = time.Time{}
}

// handleArchive 标记记录为已归档并发出归档通知。
// 标记失败是元数据持久化失败：仅记录，不阻塞滚动。
func (w *Writer) handleArchive(rec *xcatalog.Record) {
	if err := rec.SetArchived(true); err != nil {
		w.logger.Warn("mark log file archived failed",
			slog.String("path", rec.Path()), slog.Any("error", err))
	}
	// 文件名标记实现会重命名，通知携带归档后的路径
	w.notify(w.onArchived, rec.Path())
}

// handleSync 落盘当前文件。
func (w *Writer) handleSync() {
	if w.file == nil {
		return
	}
	if err := w.file.Sync(); err != nil {
		w.logger.Warn("sync log file failed", slog.Any("error", err))
	}
}

// handleShutdown 循环退出时的收尾：落盘关闭句柄、释放定时器与监视。
func (w *Writer) handleShutdown() {
	w.cancelAgeTimer()
	if w.file != nil {
		w.handleSync()
		if err := w.file.Close(); err != nil {
			w.logger.Warn("close log file failed", slog.Any("error", err))
		}
		w.file = nil
		w.rec = nil
	}
	if w.watcher != nil {
		_ = w.watcher.Close()
	}
}

// armAgeTimer 武装按时长滚动的一次性定时器。
func (w *Writer) armAgeTimer() {
	if w.rollFrequency <= 0 {
		return
	}
	d := time.Until(w.birth.Add(w.rollFrequency))
	if d < 0 {
		d = 0
	}
	w.ageTimer = time.AfterFunc(d, func() {
		w.enqueue(func() { w.handleAgeFire() })
	})
}

// handleAgeFire 定时器触发：复查到期谓词，防御时钟漂移导致的提前
// 触发——未到期则重新武装而不是滚动。
func (w *Writer) handleAgeFire() {
	if w.file == nil || w.rollFrequency <= 0 {
		return
	}
	if time.Since(w.birth) >= w.rollFrequency {
		w.handleRoll("age")
		return
	}
	w.armAgeTimer()
}

// cancelAgeTimer 撤销已武装的定时器。
func (w *Writer) cancelAgeTimer() {
	if w.ageTimer != nil {
		w.ageTimer.Stop()
		w.ageTimer = nil
	}
}

// reportWriteError 计数并记录写入失败，超过上限后静默丢弃。
func (w *Writer) reportWriteError(err error) {
	w.metrics.RecordWriteError()
	if w.writeErrs >= maxLoggedWriteErrors {
		return
	}
	w.writeErrs++
	w.logger.Warn("log write failed",
		slog.Int("occurrence", w.writeErrs), slog.Any("error", err))
	if w.writeErrs == maxLoggedWriteErrors {
		w.logger.Warn("write failure log cap reached, further failures dropped silently")
	}
}

// notify 在后台 goroutine 发出回调通知，不阻塞写路径。
func (w *Writer) notify(fn func(string), path string) {
	if fn == nil {
		return
	}
	w.bg.Add(1)
	go func() {
		defer w.bg.Done()
		fn(path)
	}()
}

// recordBirth 取记录的出生时间：文件名时间戳优先，其次文件创建时间，
// 最后回退为 "现在"（与编目器排序键同一条回退链）。
func recordBirth(rec *xcatalog.Record) time.Time {
	if ts, ok := rec.Timestamp(); ok {
		return ts
	}
	if created, err := rec.CreationTime(); err == nil {
		return created
	}
	return time.Now()
}
