package xlogmgr

import "sync/atomic"

// =============================================================================
// 进程级默认实例
//
// 定位：进程最外层组装点的便捷注册。
// 库和服务代码推荐依赖注入（显式持有 Manager）。
// =============================================================================

// defaultManager 进程级默认实例（并发安全）。
var defaultManager atomic.Pointer[Manager]

// SetDefault 注册进程级默认实例。传入 nil 将被忽略；
// 要清除默认实例请使用 ResetDefault。
func SetDefault(m *Manager) {
	if m != nil {
		defaultManager.Store(m)
	}
}

// Default 返回进程级默认实例；未注册时返回 nil。
func Default() *Manager {
	return defaultManager.Load()
}

// ResetDefault 清除进程级默认实例。主要用于测试隔离。
func ResetDefault() {
	defaultManager.Store(nil)
}

// Start 启动默认实例。未注册默认实例时返回 [ErrNoDefault]。
func Start() error {
	m := Default()
	if m == nil {
		return ErrNoDefault
	}
	return m.Start()
}

// Stop 停止默认实例。未注册默认实例时是安全的空操作。
func Stop() error {
	m := Default()
	if m == nil {
		return nil
	}
	return m.Stop()
}

// WriteLog 向默认实例记录一条日志。未注册默认实例时静默丢弃——
// 与 Manager 本身的 fire-and-forget 约定一致。
func WriteLog(tag, text string) {
	if m := Default(); m != nil {
		m.WriteLog(tag, text)
	}
}

// CurrentLogFilePath 返回默认实例的当前日志文件路径；
// 未注册默认实例时返回空串。
func CurrentLogFilePath() string {
	m := Default()
	if m == nil {
		return ""
	}
	return m.CurrentLogFilePath()
}
