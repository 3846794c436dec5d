// Package xmark 提供日志文件归档状态标记能力。
//
// 归档状态决定一个日志文件是否仍是当前写入目标：未归档的文件是唯一的
// 活跃文件，已归档的文件进入保留策略的清理范围。标记必须持久化在文件
// 系统上（而非进程内存），因为外部进程可能翻转它，且进程重启后需要据此
// 恢复。
//
// # 两种实现
//
//   - [NewAttributeMarker]: 通过扩展属性（xattr）存储固定标记，属性存在
//     即表示已归档。不改变文件名，是首选实现。
//   - [NewFilenameMarker]: 在文件名中插入 ".archived" 中缀（重命名实现），
//     用于不支持扩展属性的文件系统（如部分网络文件系统、模拟器环境）。
//
// [Detect] 在构造期做一次能力探测并返回合适的实现，调用方不应在运行时
// 散布平台条件判断。
//
// # 降级语义
//
// AttributeMarker 的写入失败（如文件系统不支持）由调用方记录日志后继续，
// 归档状态在该场景下不持久化，这是已接受并文档化的限制。
package xmark
