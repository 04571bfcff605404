package xexpire

import (
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xexpire/pkg/observability/xlog"
)

const defaultName = "default"

// Option 定义 Set 的可选配置。
type Option[T comparable] func(*options[T])

type options[T comparable] struct {
	name            string
	defaultDuration StorageDuration
	capacity        int
	comparer        Comparer[T]
	comparerSet     bool
	seed            []T
	clock           clockwork.Clock
	logger          xlog.Logger
	meterProvider   metric.MeterProvider
	onExpired       []func(Expired[T])
}

func defaultOptions[T comparable]() *options[T] {
	return &options[T]{
		name:            defaultName,
		defaultDuration: Unlimited(),
		clock:           clockwork.NewRealClock(),
		logger:          xlog.Discard(),
		meterProvider:   otel.GetMeterProvider(),
	}
}

func (o *options[T]) validate() error {
	if o.defaultDuration.IsDefault() {
		return ErrInvalidDefaultDuration
	}
	if o.capacity < 0 {
		return ErrInvalidCapacity
	}
	if o.comparerSet && o.comparer == nil {
		return ErrNilComparer
	}
	return nil
}

// WithName 设置集合名称，用于日志与指标的 set 属性。空字符串忽略。
func WithName[T comparable](name string) Option[T] {
	return func(o *options[T]) {
		if name != "" {
			o.name = name
		}
	}
}

// WithDefaultDuration 设置默认存储时长（构造后不可修改），默认 Unlimited。
// 传入 UseDefault 时 New 返回 [ErrInvalidDefaultDuration]。
func WithDefaultDuration[T comparable](d StorageDuration) Option[T] {
	return func(o *options[T]) {
		o.defaultDuration = d
	}
}

// WithCapacity 设置索引的初始容量提示。负值时 New 返回 [ErrInvalidCapacity]。
func WithCapacity[T comparable](n int) Option[T] {
	return func(o *options[T]) {
		o.capacity = n
	}
}

// WithComparer 使用自定义哈希/相等语义替代 T 的 ==。nil 时 New 返回 [ErrNilComparer]。
func WithComparer[T comparable](c Comparer[T]) Option[T] {
	return func(o *options[T]) {
		o.comparer = c
		o.comparerSet = true
	}
}

// WithSeed 设置初始值，每个值以默认存储时长加入。重复值只保留第一个。
func WithSeed[T comparable](values ...T) Option[T] {
	return func(o *options[T]) {
		o.seed = append(o.seed, values...)
	}
}

// WithClock 设置计时器使用的时钟，测试中可注入 clockwork.FakeClock。nil 忽略。
func WithClock[T comparable](clock clockwork.Clock) Option[T] {
	return func(o *options[T]) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger 设置日志实例。nil 忽略。
func WithLogger[T comparable](logger xlog.Logger) Option[T] {
	return func(o *options[T]) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMeterProvider 设置 OTel MeterProvider，默认使用全局 provider。nil 忽略。
func WithMeterProvider[T comparable](mp metric.MeterProvider) Option[T] {
	return func(o *options[T]) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}

// WithOnExpired 在构造时注册到期订阅者，保证不会错过种子值的到期通知。
func WithOnExpired[T comparable](fn func(Expired[T])) Option[T] {
	return func(o *options[T]) {
		if fn != nil {
			o.onExpired = append(o.onExpired, fn)
		}
	}
}
