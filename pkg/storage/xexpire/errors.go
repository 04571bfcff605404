package xexpire

import "errors"

var (
	// ErrMissingEvictionCallback 表示武装计时器时未提供任何到期回调。
	// 没有观察者的计时器永远无法把条目从索引中移除，属于编程错误。
	ErrMissingEvictionCallback = errors.New("xexpire: timer must be armed with at least one elapse callback")

	// ErrInvalidDuration 表示有限存储时长为负值。
	ErrInvalidDuration = errors.New("xexpire: storage duration must not be negative")

	// ErrInvalidDefaultDuration 表示容器默认存储时长配置为 UseDefault。
	// 默认值只能是 Unlimited 或 Finite。
	ErrInvalidDefaultDuration = errors.New("xexpire: default storage duration must be unlimited or finite")

	// ErrInvalidCapacity 表示初始容量为负值。
	ErrInvalidCapacity = errors.New("xexpire: capacity must not be negative")

	// ErrTimerNotIdle 表示对非 Idle 状态的计时器重复武装。
	ErrTimerNotIdle = errors.New("xexpire: timer is not idle")

	// ErrNilComparer 表示 WithComparer 传入了 nil。
	ErrNilComparer = errors.New("xexpire: nil comparer")
)
