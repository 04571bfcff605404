package xexpire

import (
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// State 表示计时器所处的状态。
type State int32

const (
	// StateIdle 已创建、尚未武装。
	StateIdle State = iota
	// StateArmed 正在倒计时，除非被取消或重启，否则恰好触发一次。
	StateArmed
	// StateFired 终态：到期回调已被调度。
	StateFired
	// StateCancelled 终态：在触发前被移除或替换。
	StateCancelled
	// StateUnlimited 永不过期，永不迁移、永不触发。
	StateUnlimited
)

// String 返回状态名，用于日志与调试。
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateFired:
		return "fired"
	case StateCancelled:
		return "cancelled"
	case StateUnlimited:
		return "unlimited"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Firing 描述一次计时器触发。
type Firing struct {
	// Timer 触发的计时器实例。接收方应按实例身份（而非值）定位其所有者。
	Timer *Timer
	// At 触发时刻（计时器所用时钟）。
	At time.Time
}

// ElapseFunc 是计时器到期回调，在后台 goroutine 中执行。
type ElapseFunc func(f Firing)

// TimerSnapshot 是计时器在某一时刻的只读快照。
type TimerSnapshot struct {
	Duration    StorageDuration
	State       State
	CreatedAt   time.Time
	LastResetAt time.Time
}

// Deadline 返回按快照推算的到期时刻；Unlimited 返回 (zero, false)。
func (s TimerSnapshot) Deadline() (time.Time, bool) {
	d, ok := s.Duration.Duration()
	if !ok {
		return time.Time{}, false
	}
	return s.LastResetAt.Add(d), true
}

// Elapsed 返回自最近一次开始倒计时到 now 已流逝的时间，now 早于该时刻时返回 0。
func (s TimerSnapshot) Elapsed(now time.Time) time.Duration {
	return max(now.Sub(s.LastResetAt), 0)
}

// Remaining 返回到 now 为止距离到期的剩余时间；Unlimited 返回 (0, false)。
// 已过到期时刻时返回 (0, true)。
func (s TimerSnapshot) Remaining(now time.Time) (time.Duration, bool) {
	deadline, ok := s.Deadline()
	if !ok {
		return 0, false
	}
	return max(deadline.Sub(now), 0), true
}

// Timer 是单次触发的倒计时器，持有自身的 armed/fired/cancelled 状态。
//
// 触发不会自动重新武装。每次 Arm/Restart 都会推进内部代数（generation），
// 被重启取代的旧倒计时即使已经在途，也会因代数不匹配被丢弃。
type Timer struct {
	clock    clockwork.Clock
	duration StorageDuration // 已解析：Unlimited 或 Finite

	mu        sync.Mutex
	state     State
	createdAt time.Time
	lastReset time.Time
	gen       uint64
	t         clockwork.Timer
	onElapse  []ElapseFunc
}

// NewTimer 创建处于 Idle 状态的计时器。
// d 必须已经解析（Unlimited 或 Finite）；传入 UseDefault 属于编程错误，会 panic。
// clock 为 nil 时使用真实时钟。
func NewTimer(clock clockwork.Clock, d StorageDuration) *Timer {
	if d.IsDefault() {
		panic("xexpire: timer duration must be resolved before creation")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	now := clock.Now()
	t := &Timer{
		clock:     clock,
		duration:  d,
		state:     StateIdle,
		createdAt: now,
		lastReset: now,
	}
	if d.IsUnlimited() {
		t.state = StateUnlimited
	}
	return t
}

// Arm 注册到期回调并开始倒计时，迁移到 StateArmed。
//
// 至少需要一个非 nil 回调，否则返回 [ErrMissingEvictionCallback]。
// 对非 Idle 计时器调用返回 [ErrTimerNotIdle]。
// Unlimited 计时器校验回调后直接返回 nil，不会开始倒计时。
func (t *Timer) Arm(onElapse ...ElapseFunc) error {
	cbs := make([]ElapseFunc, 0, len(onElapse))
	for _, fn := range onElapse {
		if fn != nil {
			cbs = append(cbs, fn)
		}
	}
	if len(cbs) == 0 {
		return ErrMissingEvictionCallback
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case StateUnlimited:
		return nil
	case StateIdle:
	default:
		return ErrTimerNotIdle
	}

	t.onElapse = cbs
	now := t.clock.Now()
	t.createdAt, t.lastReset = now, now
	t.state = StateArmed
	t.startLocked()
	return nil
}

// Restart 从当前时刻起按原时长重新倒计时，保留回调与时长。
// 仅 StateArmed 有效；Unlimited、已触发或已取消的计时器返回 false。
func (t *Timer) Restart() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateArmed {
		return false
	}
	if t.t != nil {
		t.t.Stop()
	}
	t.lastReset = t.clock.Now()
	t.startLocked()
	return true
}

// Cancel 取消计时器并注销全部回调。
// Idle/Armed 迁移到 StateCancelled 并返回 true；其余状态仅注销回调，返回 false。
func (t *Timer) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.onElapse = nil
	switch t.state {
	case StateIdle, StateArmed:
	default:
		return false
	}
	if t.t != nil {
		t.t.Stop()
		t.t = nil
	}
	t.state = StateCancelled
	return true
}

// unsubscribe 注销回调但不改变状态，用于到期处理完成后的清理。
func (t *Timer) unsubscribe() {
	t.mu.Lock()
	t.onElapse = nil
	t.t = nil
	t.mu.Unlock()
}

// State 返回当前状态。
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Duration 返回已解析的存储时长。
func (t *Timer) Duration() StorageDuration {
	return t.duration
}

// CreatedAt 返回创建（或武装）时刻。
func (t *Timer) CreatedAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.createdAt
}

// LastResetAt 返回最近一次开始倒计时的时刻。
func (t *Timer) LastResetAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastReset
}

// Snapshot 返回计时器的一致性快照。
func (t *Timer) Snapshot() TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TimerSnapshot{
		Duration:    t.duration,
		State:       t.state,
		CreatedAt:   t.createdAt,
		LastResetAt: t.lastReset,
	}
}

// startLocked 推进代数并启动底层倒计时。调用方必须持有 t.mu。
func (t *Timer) startLocked() {
	t.gen++
	gen := t.gen
	d, _ := t.duration.Duration()
	t.t = t.clock.AfterFunc(d, func() { t.fire(gen) })
}

// fire 在时钟的后台 goroutine 中执行。
// 只有当前代数的 Armed 计时器才会迁移到 Fired 并调用回调，回调在锁外执行。
func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	if t.state != StateArmed || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.state = StateFired
	cbs := t.onElapse
	f := Firing{Timer: t, At: t.clock.Now()}
	t.mu.Unlock()

	for _, cb := range cbs {
		cb(f)
	}
}
