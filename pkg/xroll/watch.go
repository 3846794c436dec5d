package xroll

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// runWatchPump 消费文件系统事件并转交操作循环处理。
// 事件处理本身在循环内执行，与写入自动串行，无需额外加锁。
// 监视器关闭（Close 收尾）时事件通道关闭，pump 退出。
func (w *Writer) runWatchPump() {
	defer w.bg.Done()
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name := ev.Name
			w.enqueue(func() { w.handleExternalChange(name) })
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watch error", slog.Any("error", err))
		}
	}
}

// handleExternalChange 当前文件被外部删除或改名：立即滚动。
// 绝不继续向已断开的句柄写入；新文件在下次写入时惰性创建。
func (w *Writer) handleExternalChange(path string) {
	if w.file == nil || w.rec == nil || w.rec.Path() != path {
		return
	}
	w.logger.Warn("current log file changed externally, rolling", slog.String("path", path))
	w.handleRoll("external")
}

// watch 开始监视当前文件。监视失败降级运行，仅失去外部变更检测。
func (w *Writer) watch(path string) {
	if w.watcher == nil {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("watch log file failed",
			slog.String("path", path), slog.Any("error", err))
	}
}

// unwatch 停止监视。滚动会重命名或外部已删除该文件，移除失败无关紧要。
func (w *Writer) unwatch(path string) {
	if w.watcher == nil {
		return
	}
	_ = w.watcher.Remove(path)
}
