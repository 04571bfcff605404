// Package storage 提供进程内数据存储相关的子包。
//
// 子包列表：
//   - xexpire: 按条目独立计时、自动过期的唯一值集合
//   - xexpiremap: 在 xexpire.Set 之上维护 key → value 索引，值到期时同步移除 key
package storage
