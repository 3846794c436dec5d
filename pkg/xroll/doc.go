// Package xroll 提供滚动日志文件写入器：持有唯一的活跃文件句柄，
// 按大小、按时长、或在文件被外部删除/改名时切换到新文件。
//
// # 串行执行模型
//
// 一个 [Writer] 实例的所有变更操作——写入、滚动、影响滚动的属性修改、
// 时长定时器触发、文件系统事件——全部经由单一 goroutine 消费的操作
// 队列串行执行，写入与滚动决策之间是全序关系：任何写入都不会观察到
// 半完成的滚动。[Writer.Write] 是 fire-and-forget；[Writer.Flush] 与
// [Writer.Close] 同步汇合，等待队列中先行入队的工作全部完成。
//
// 归档通知、文件创建通知在后台 goroutine 执行，不阻塞写路径，
// 也不触碰写入器私有状态。
//
// # 滚动触发
//
// 滚动判定在 "需要当前文件" 时惰性求值，四个谓词任一为真即滚动：
// 调用方注入的覆盖谓词、大小达到上限（写后 O(1) 偏移量比较，不重新
// stat）、文件年龄达到滚动周期（定时器提前触发时复查并重新武装）、
// 环境强制滚动（[Writer.ForceRoll]）。当前文件被外部删除或改名时
// 立即滚动——绝不继续向已断开的句柄写入。
//
// 滚动后新文件按需惰性创建：无后续写入就不会产生空文件。
//
// # 失败语义
//
// 写入失败不向调用方传播：计数、记录日志（上限 10 次，之后静默丢弃，
// 避免持续损坏的文件系统造成日志风暴）。归档标记写失败仅记录，
// 不阻塞滚动。文件创建重试耗尽是该次滚动的硬失败，写入器保持无当前
// 文件状态，下次写入重试。
package xroll
