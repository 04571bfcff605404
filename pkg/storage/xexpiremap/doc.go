// Package xexpiremap 在 xexpire.Set 之上维护 key → value 的二级索引。
//
// 值的生命周期完全由底层 Set 决定：值到期被淘汰时，指向它的 key 随之移除。
// Map 只依赖 Set 的 Add、Remove、Contains 与到期订阅，不触碰计时器。
//
// 底层 Set 应由 Map 独占：绕过 Map 直接修改 Set 会使两侧索引不一致。
package xexpiremap
