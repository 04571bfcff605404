package xexpire

import (
	"context"
	"log/slog"
	"time"

	"github.com/omeyang/xexpire/pkg/observability/xlog"
)

// Expired 是到期通知的负载：被淘汰的值与其计时器的最终快照。
type Expired[T any] struct {
	Value     T
	Timer     TimerSnapshot
	ExpiredAt time.Time
}

// staleReason 描述到期触发被丢弃的原因。
type staleReason string

const (
	staleNotOwned   staleReason = "timer not owned"
	staleSuperseded staleReason = "entry superseded"
	staleClosed     staleReason = "set closed"
)

// onElapse 是每个计时器的到期回调，在时钟的后台 goroutine 中执行。
//
// 处理流程：
//  1. 按计时器实例（而非值）定位当前拥有它的条目
//  2. 确认该条目仍是索引中的活跃成员，否则这是一次过期触发，静默丢弃
//  3. 从索引移除条目
//  4. 注销计时器自身的回调
//  5. 在锁外恰好发送一次到期通知
func (s *Set[T]) onElapse(f Firing) {
	ev, reason, ok := s.evict(f)
	if !ok {
		s.metrics.recordStale()
		s.logger.Debug(context.Background(), "xexpire: stale timer firing dropped",
			slog.String("reason", string(reason)))
		return
	}

	s.metrics.recordExpired()
	s.logger.Debug(context.Background(), "xexpire: entry expired",
		xlog.Value(ev.Value), xlog.DurationText(ev.Timer.Duration))
	s.publish(ev)
}

func (s *Set[T]) evict(f Firing) (Expired[T], staleReason, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Expired[T]{}, staleClosed, false
	}
	e, ok := s.owners[f.Timer]
	if !ok {
		// 条目已被移除，或计时器已被替换
		return Expired[T]{}, staleNotOwned, false
	}
	if cur, live := s.index.get(e.value); !live || cur != e {
		delete(s.owners, f.Timer)
		return Expired[T]{}, staleSuperseded, false
	}

	delete(s.owners, f.Timer)
	s.index.remove(e.value)
	f.Timer.unsubscribe()

	return Expired[T]{
		Value:     e.value,
		Timer:     f.Timer.Snapshot(),
		ExpiredAt: f.At,
	}, "", true
}
