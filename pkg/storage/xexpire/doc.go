// Package xexpire 提供进程内的自动过期集合：每个值拥有独立的倒计时器，
// 到期后被移除并通知订阅者。
//
// # 核心组件
//
//   - StorageDuration：三态存储时长（Unlimited / UseDefault / Finite）
//   - Timer：单次触发的倒计时器，状态机 Idle → Armed → Fired/Cancelled，
//     Unlimited 计时器永不触发
//   - Resolver：按容器默认值解析存储时长并产出已武装的计时器
//   - Set：值唯一的集合，支持增删、更新值/时长、重置计时与集合运算
//
// # 存储时长
//
// UseDefault 在加入时解析为构造时捕获的默认值，之后条目持有的总是已解析的时长。
// Finite(0) 与 UseDefault 不同：它表示在下一次调度时机淘汰。
// 默认值本身只能是 Unlimited 或 Finite，未配置时为 Unlimited。
//
// # 到期与竞态
//
// 到期回调在时钟的后台 goroutine 中执行，与前台操作竞争同一把索引锁。
// 回调按计时器实例（而非值）定位条目，并确认条目仍是索引中的活跃成员：
//   - Remove、Clear 或 TryUpdateDuration 替换计时器后，旧计时器的在途触发被静默丢弃
//   - TryUpdateValue 保留计时器，到期时移除的是更新后的值
//   - 计时器已触发而淘汰尚未完成时，TryResetDuration 返回 false，条目随后被移除
//
// 每次淘汰恰好通知一次，通知在锁外同步发出，订阅者中可以安全调用 Set 的方法。
// 显式移除（Remove、Clear、ExceptWith 等）不产生通知。
//
// # 可观测性
//
// 通过 OTel metric API 上报 xexpire.entry.added / removed / expired、
// xexpire.timer.stale 计数以及 xexpire.entry.count 观测值，均带 set=<name> 属性。
// 淘汰与丢弃的触发以 Debug 级别记录到 xlog，订阅者 panic 以 Error 级别记录。
//
// # 测试
//
// 通过 WithClock 注入 clockwork.FakeClock 可以确定性地推进时间。
// 注意：FakeClock 的到期回调在独立 goroutine 中异步执行，断言时需等待。
package xexpire
