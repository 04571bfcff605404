package xexpire

import "fmt"

// Config 是 Set 的可序列化配置，字段带 koanf 标签，可由 xconf 直接解码：
//
//	expire:
//	  name: sessions
//	  default_duration: 30s   # 或 unlimited
//	  capacity: 1024
type Config struct {
	// Name 集合名称，为空时使用 "default"。
	Name string `koanf:"name" json:"name"`
	// DefaultDuration 默认存储时长。未配置（UseDefault）时按 Unlimited 处理。
	DefaultDuration StorageDuration `koanf:"default_duration" json:"default_duration"`
	// Capacity 初始容量提示。
	Capacity int `koanf:"capacity" json:"capacity"`
}

// Validate 校验配置。
func (c Config) Validate() error {
	if c.Capacity < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, c.Capacity)
	}
	return nil
}

func configOptions[T comparable](c Config) []Option[T] {
	return []Option[T]{
		WithName[T](c.Name),
		WithDefaultDuration[T](c.DefaultDuration.Or(Unlimited())),
		WithCapacity[T](c.Capacity),
	}
}

// NewFromConfig 按配置创建 Set。opts 在配置之后应用，可覆盖配置项。
func NewFromConfig[T comparable](cfg Config, opts ...Option[T]) (*Set[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(append(configOptions[T](cfg), opts...)...)
}
