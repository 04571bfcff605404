package xexpire

import (
	"context"
	"iter"
	"log/slog"
	"sync"

	"github.com/omeyang/xexpire/pkg/observability/xlog"
)

// Set 是按条目独立倒计时自动淘汰的唯一值集合。
//
// 每个值拥有自己的计时器；计时器到期后值被移除，并向订阅者发送一次 [Expired] 通知。
// 显式 Remove、Clear、Close 以及替换计时器的更新操作不会产生通知。
//
// 所有方法并发安全。索引由一把互斥锁保护，前台操作与后台到期淘汰互斥，
// 旧计时器的取消与索引修改发生在同一临界区内：操作返回后，被取代的计时器
// 不会再造成可观察的移除或通知。
//
// 必须通过 [New] 创建，零值不可用。
type Set[T comparable] struct {
	name     string
	resolver *Resolver
	comparer Comparer[T]
	logger   xlog.Logger
	metrics  *setMetrics

	mu     sync.Mutex
	index  index[T]
	owners map[*Timer]*entry[T] // 仅包含会触发的（有限时长）计时器
	closed bool

	subMu   sync.RWMutex
	subs    []subscriber[T]
	nextSub uint64
}

// New 创建 Set。
//
// 配置无效时返回错误：默认时长为 UseDefault 返回 [ErrInvalidDefaultDuration]，
// 负容量返回 [ErrInvalidCapacity]，nil Comparer 返回 [ErrNilComparer]。
func New[T comparable](opts ...Option[T]) (*Set[T], error) {
	o := defaultOptions[T]()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	resolver, err := NewResolver(o.defaultDuration, o.clock)
	if err != nil {
		return nil, err
	}

	s := &Set[T]{
		name:     o.name,
		resolver: resolver,
		comparer: o.comparer,
		logger:   o.logger.With(xlog.Component("xexpire"), slog.String("set", o.name)),
		owners:   make(map[*Timer]*entry[T], o.capacity),
	}
	s.index = s.newIndex(o.capacity)
	s.metrics, err = newSetMetrics(o.meterProvider, o.name, func() int64 { return int64(s.Len()) })
	if err != nil {
		return nil, err
	}

	for _, fn := range o.onExpired {
		s.OnExpired(fn)
	}

	s.mu.Lock()
	for _, v := range o.seed {
		s.addLocked(v, UseDefault())
	}
	s.mu.Unlock()
	return s, nil
}

// Name 返回集合名称。
func (s *Set[T]) Name() string { return s.name }

// DefaultDuration 返回构造时捕获的默认存储时长。
func (s *Set[T]) DefaultDuration() StorageDuration { return s.resolver.Default() }

// Add 以存储时长 d 加入 value。
// value 已存在时返回 false 且不做任何修改（原时长保持不变）。
func (s *Set[T]) Add(value T, d StorageDuration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(value, d)
}

// AddDefault 以默认存储时长加入 value，等价于 Add(value, UseDefault())。
func (s *Set[T]) AddDefault(value T) bool {
	return s.Add(value, UseDefault())
}

// Remove 取消 value 的计时器并移除，不发送通知。
// 返回 value 是否存在并被移除。
func (s *Set[T]) Remove(value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	e, ok := s.index.get(value)
	if !ok {
		return false
	}
	s.detachLocked(e)
	s.metrics.recordRemoved(1)
	return true
}

// Contains 报告 value 是否在集合中。
func (s *Set[T]) Contains(value T) bool {
	return s.view(value, func(*entry[T]) {})
}

// TryGetValue 返回集合中与 value 相等的已存储值。
// 使用自定义 Comparer 时，已存储值可能与 value 的表示不同。
func (s *Set[T]) TryGetValue(value T) (stored T, ok bool) {
	ok = s.view(value, func(e *entry[T]) { stored = e.value })
	return stored, ok
}

// TryGetDuration 返回 value 已解析的存储时长（Unlimited 或 Finite）。
func (s *Set[T]) TryGetDuration(value T) (d StorageDuration, ok bool) {
	ok = s.view(value, func(e *entry[T]) { d = e.timer.Duration() })
	return d, ok
}

// TryGetSnapshot 返回 value 计时器的快照（时长、状态、创建与最近重置时刻）。
func (s *Set[T]) TryGetSnapshot(value T) (snap TimerSnapshot, ok bool) {
	ok = s.view(value, func(e *entry[T]) { snap = e.timer.Snapshot() })
	return snap, ok
}

// TryUpdateValue 把已存储的 value 替换为 updated（索引重新以 updated 为键）。
//
// reset 为 true 时重启原计时器；为 false 时原计时器原样保留（已流逝时间不变）。
// value 不存在，或 updated 已作为另一个条目存在时返回 false 且不做修改。
func (s *Set[T]) TryUpdateValue(value, updated T, reset bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tryUpdateValueLocked(value, updated, reset)
}

// TryUpdateDuration 取消 value 的现有计时器，并以 d 武装一个全新的计时器。
// 这必然重置已流逝时间。value 不存在时返回 false。
func (s *Set[T]) TryUpdateDuration(value T, d StorageDuration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tryUpdateDurationLocked(value, d)
}

// TryResetDuration 以当前时长重启 value 的计时器。
//
// Unlimited 条目视为成功（无需重启）。计时器已触发、淘汰尚在途中时返回 false：
// 该条目即将被移除。value 不存在时返回 false。
func (s *Set[T]) TryResetDuration(value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tryResetLocked(value)
}

// AddOrUpdateValue 存在时执行 TryUpdateValue，否则以默认时长加入 value。
func (s *Set[T]) AddOrUpdateValue(value, updated T, reset bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tryUpdateValueLocked(value, updated, reset) {
		return true
	}
	return s.addLocked(value, UseDefault())
}

// AddOrResetDuration 存在时执行 TryResetDuration，否则以默认时长加入 value。
func (s *Set[T]) AddOrResetDuration(value T) bool {
	return s.AddOrResetDurationWith(value, UseDefault())
}

// AddOrResetDurationWith 存在时执行 TryResetDuration，否则以 d 加入 value。
func (s *Set[T]) AddOrResetDurationWith(value T, d StorageDuration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tryResetLocked(value) {
		return true
	}
	return s.addLocked(value, d)
}

// AddOrUpdateDuration 存在时执行 TryUpdateDuration，否则以 d 加入 value。
func (s *Set[T]) AddOrUpdateDuration(value T, d StorageDuration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tryUpdateDurationLocked(value, d) {
		return true
	}
	return s.addLocked(value, d)
}

// GetOrAdd 返回已存储的等值元素；不存在时以 d 加入 value 并返回 (value, true)。
func (s *Set[T]) GetOrAdd(value T, d StorageDuration) (stored T, added bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.index.get(value); ok && !s.closed {
		return e.value, false
	}
	return value, s.addLocked(value, d)
}

// GetSnapshotOrAdd 返回 value 的计时器快照；不存在时先以 d 加入。
// 集合已关闭时返回 (zero, false)。
func (s *Set[T]) GetSnapshotOrAdd(value T, d StorageDuration) (TimerSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return TimerSnapshot{}, false
	}
	e, ok := s.index.get(value)
	if !ok {
		s.addLocked(value, d)
		e, _ = s.index.get(value)
	}
	return e.timer.Snapshot(), true
}

// Len 返回当前条目数。
func (s *Set[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.len()
}

// Values 返回当前所有值的快照，顺序不保证。
func (s *Set[T]) Values() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := make([]T, 0, s.index.len())
	s.index.each(func(e *entry[T]) bool {
		values = append(values, e.value)
		return true
	})
	return values
}

// All 返回值序列。每次迭代开始时取快照，迭代期间可安全修改集合。
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.Values() {
			if !yield(v) {
				return
			}
		}
	}
}

// Clear 取消所有计时器并清空集合，不发送通知。
func (s *Set[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	n := s.clearLocked()
	s.metrics.recordRemoved(int64(n))
}

// Close 取消所有计时器、清空集合并注销指标回调，不发送通知。
// 幂等。Close 后写操作返回 false，读操作返回零值。
func (s *Set[T]) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	n := s.clearLocked()
	s.mu.Unlock()

	s.subMu.Lock()
	s.subs = nil
	s.subMu.Unlock()

	s.logger.Debug(context.Background(), "xexpire: set closed", xlog.Count(int64(n)))
	return s.metrics.close()
}

// view 在 s.mu 内对 value 的条目执行 fn。条目的计时器会被更新操作替换，
// 读取必须在同一临界区内完成。value 不存在或集合已关闭时返回 false。
func (s *Set[T]) view(value T, fn func(e *entry[T])) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	e, ok := s.index.get(value)
	if !ok {
		return false
	}
	fn(e)
	return true
}

// =============================================================================
// 以下方法要求调用方持有 s.mu
// =============================================================================

// newIndex 按集合的相等语义创建索引。不需要持有 s.mu。
func (s *Set[T]) newIndex(capacity int) index[T] {
	if s.comparer != nil {
		return newHashIndex(s.comparer, capacity)
	}
	return newMapIndex[T](capacity)
}

func (s *Set[T]) addLocked(value T, d StorageDuration) bool {
	if s.closed {
		return false
	}
	if _, ok := s.index.get(value); ok {
		return false
	}
	e := &entry[T]{value: value, timer: s.newTimerLocked(d)}
	s.index.insert(e)
	s.bindLocked(e)
	s.metrics.recordAdded()
	return true
}

func (s *Set[T]) tryUpdateValueLocked(value, updated T, reset bool) bool {
	if s.closed {
		return false
	}
	e, ok := s.index.get(value)
	if !ok {
		return false
	}
	if other, exists := s.index.get(updated); exists && other != e {
		return false
	}
	s.index.remove(e.value)
	ne := &entry[T]{value: updated, timer: e.timer}
	s.index.insert(ne)
	s.bindLocked(ne)
	if reset {
		ne.timer.Restart()
	}
	return true
}

func (s *Set[T]) tryUpdateDurationLocked(value T, d StorageDuration) bool {
	if s.closed {
		return false
	}
	e, ok := s.index.get(value)
	if !ok {
		return false
	}
	e.timer.Cancel()
	delete(s.owners, e.timer)
	e.timer = s.newTimerLocked(d)
	s.bindLocked(e)
	return true
}

func (s *Set[T]) tryResetLocked(value T) bool {
	if s.closed {
		return false
	}
	e, ok := s.index.get(value)
	if !ok {
		return false
	}
	if e.timer.State() == StateUnlimited {
		return true
	}
	return e.timer.Restart()
}

// newTimerLocked 创建以 s.onElapse 为回调的已武装计时器。
func (s *Set[T]) newTimerLocked(d StorageDuration) *Timer {
	t, err := s.resolver.NewTimer(d, s.onElapse)
	if err != nil {
		// s.onElapse 非 nil，Arm 不会失败
		panic(err)
	}
	return t
}

// bindLocked 把 e 登记为其计时器的所有者。
// 计时器必须已武装（或为 Unlimited）：没有淘汰路径的条目不允许进入索引。
func (s *Set[T]) bindLocked(e *entry[T]) {
	switch e.timer.State() {
	case StateUnlimited:
		return
	case StateArmed, StateFired:
		// Finite(0) 可能在登记前已触发，其回调正等待 s.mu
		s.owners[e.timer] = e
	default:
		panic("xexpire: entry timer must be armed before indexing")
	}
}

// detachLocked 先取消计时器（注销回调），再从索引移除。
func (s *Set[T]) detachLocked(e *entry[T]) {
	e.timer.Cancel()
	delete(s.owners, e.timer)
	s.index.remove(e.value)
}

func (s *Set[T]) clearLocked() int {
	n := s.index.len()
	s.index.each(func(e *entry[T]) bool {
		e.timer.Cancel()
		return true
	})
	s.index.reset()
	clear(s.owners)
	return n
}
