// Package xcatalog 提供日志目录编目能力：枚举候选日志文件、按文件名内嵌
// 时间戳排序、生成不冲突的新文件名并创建文件。
//
// # 文件名即索引
//
// 日志文件命名为 "<appID> <时间戳>.log"，时间戳为定宽、字典序可排序的
// "2006-01-02--15-04-05-000"（毫秒精度）。文件名本身就是排序索引，系统
// 不维护额外的清单文件——目录列表永远是事实来源，付出少量解析成本换取
// 零额外持久化状态和崩溃安全。
//
// # 排序的容错策略
//
// [Catalog.Records] 按内嵌时间戳降序（最新在前）排序。时间戳解析失败时
// 降级为文件系统创建时间；创建时间也不可用时按"现在"处理，使无法解析的
// 文件排到最前而不是让排序报错。排序永不失败。
//
// # 创建与冲突
//
// [Catalog.CreateFile] 原子创建新文件（O_EXCL）。时钟精度粗于创建频率时
// 会发生命名冲突，通过在扩展名前追加递增计数器（" 2"、" 3"…）解决；
// 冲突重试次数不设上限（由计数器增长保证终止），非冲突性创建失败累计
// 5 次后放弃并报告硬错误。
package xcatalog
