package xexpire

import (
	"context"
	"fmt"

	"github.com/omeyang/xexpire/pkg/observability/xlog"
)

type subscriber[T comparable] struct {
	id uint64
	fn func(Expired[T])
}

// OnExpired 订阅到期通知，返回取消订阅函数（幂等）。fn 为 nil 时忽略。
//
// 通知在计时器的后台 goroutine 中、索引锁之外同步调用，每次淘汰恰好一次。
// 回调中可以安全调用 Set 的任何方法；耗时逻辑应自行转交到其他 goroutine。
// 回调 panic 会被恢复并记录日志，不影响其他订阅者。
func (s *Set[T]) OnExpired(fn func(Expired[T])) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Set[T]) publish(ev Expired[T]) {
	s.subMu.RLock()
	subs := s.subs
	s.subMu.RUnlock()

	for _, sub := range subs {
		s.deliver(sub.fn, ev)
	}
}

func (s *Set[T]) deliver(fn func(Expired[T]), ev Expired[T]) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(context.Background(), "xexpire: expiry subscriber panicked",
				xlog.Value(ev.Value), xlog.Err(fmt.Errorf("panic: %v", r)))
		}
	}()
	fn(ev)
}
