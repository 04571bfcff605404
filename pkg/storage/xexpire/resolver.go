package xexpire

import "github.com/jonboulle/clockwork"

// Resolver 根据容器默认值解析存储时长请求，并产出已武装的计时器。
// 默认值在构造时固定，之后不可修改。
type Resolver struct {
	def   StorageDuration
	clock clockwork.Clock
}

// NewResolver 创建解析器。def 必须为 Unlimited 或 Finite，
// 否则返回 [ErrInvalidDefaultDuration]。clock 为 nil 时使用真实时钟。
func NewResolver(def StorageDuration, clock clockwork.Clock) (*Resolver, error) {
	if def.IsDefault() {
		return nil, ErrInvalidDefaultDuration
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Resolver{def: def, clock: clock}, nil
}

// Default 返回构造时捕获的默认存储时长。
func (r *Resolver) Default() StorageDuration {
	return r.def
}

// Resolve 解析请求：
//   - Unlimited → Unlimited（无视默认值）
//   - UseDefault → 构造时捕获的默认值
//   - Finite(d) → 恰好 d，包括 0
func (r *Resolver) Resolve(req StorageDuration) StorageDuration {
	return req.Or(r.def)
}

// NewTimer 解析 req 并返回已武装的计时器。
// 未提供回调时返回 [ErrMissingEvictionCallback]。
func (r *Resolver) NewTimer(req StorageDuration, onElapse ...ElapseFunc) (*Timer, error) {
	t := NewTimer(r.clock, r.Resolve(req))
	if err := t.Arm(onElapse...); err != nil {
		return nil, err
	}
	return t, nil
}
