// Package xlogmgr 是日志子系统的门面：组装编目器、滚动写入器与保留
// 清扫器，向调用方暴露最小接口——Start、WriteLog、Stop、
// CurrentLogFilePath。
//
// 写入是 fire-and-forget：任何内部错误都不会传播给记日志的调用方，
// 日志永远不能拖垮或阻塞宿主应用，最坏情况是静默丢失消息。
// 空 tag 或空文本被静默丢弃。每条消息格式化为
//
//	2006-01-02 15:04:05.000 [tag] text
//
// 并追加换行后写入当前日志文件。
//
// # 默认实例
//
// 推荐显式持有 [Manager] 实例（依赖注入）。进程最外层组装点可以用
// [SetDefault] 注册一个进程级默认实例，之后包级 [WriteLog] 等便捷
// 函数委托给它；未注册默认实例时包级函数是安全的空操作。
// 这是组装点的单实例约定，不是语言级单例。
package xlogmgr
