// Package xretain 提供日志文件保留策略：在磁盘配额与文件数量上限约束下
// 计算并执行历史日志的删除。
//
// # 纯函数与执行器分离
//
//   - [Plan]: 纯函数。给定最新在前的记录快照和 [Policy]，返回应删除的
//     记录集合，不做任何文件系统修改。
//   - [Sweeper]: 执行器。枚举目录、调用 Plan、删除文件、通知回调；
//     由策略变更和新文件创建触发，也可通过 cron 表达式周期执行。
//     清扫永远在写路径之外运行——它要做 stat 和删除，不允许拖慢写入。
//
// # 裁剪点算法
//
// 记录按最新在前排列。配额裁剪点 Q 是累计大小首次超过配额的下标；
// 数量裁剪点 C 是 MaxFileCount。两者同时生效时取 min（更激进者胜），
// 这是对既有行为的保留——病态的大小分布下可能比配额多留一些字节。
// 活跃文件保护：裁剪点为 0 且最新文件未归档时后移一位，活跃文件在
// 任何配额/数量压力下都不是删除候选。
//
// # 失败语义
//
// 单个文件删除失败记录日志后继续处理其余文件，不中断清扫。
package xretain
