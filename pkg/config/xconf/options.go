package xconf

import (
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	defaultDelim    = "."
	defaultTag      = "koanf"
	defaultDebounce = 100 * time.Millisecond

	defaultRetryAttempts = 3
	defaultRetryDelay    = 50 * time.Millisecond
)

// Option 定义 File 的加载选项。
type Option func(*options)

type options struct {
	delim string
	tag   string
}

func defaultOptions() *options {
	return &options{delim: defaultDelim, tag: defaultTag}
}

// WithDelim 设置配置键的分隔符，默认 "."（例如 "expire.default_duration"）。空字符串忽略。
func WithDelim(delim string) Option {
	return func(o *options) {
		if delim != "" {
			o.delim = delim
		}
	}
}

// WithTag 设置 Decode 使用的结构体标签名，默认 "koanf"。空字符串忽略。
func WithTag(tag string) Option {
	return func(o *options) {
		if tag != "" {
			o.tag = tag
		}
	}
}

// WatchOption 定义 Watch 的选项。
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce      time.Duration
	clock         clockwork.Clock
	retryAttempts uint
	retryDelay    time.Duration
}

func defaultWatchOptions() *watchOptions {
	return &watchOptions{
		debounce:      defaultDebounce,
		clock:         clockwork.NewRealClock(),
		retryAttempts: defaultRetryAttempts,
		retryDelay:    defaultRetryDelay,
	}
}

// WithDebounce 设置防抖时间：窗口内的多次变更只触发一次重载。
// 默认 100ms，非正值忽略。
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithWatchClock 设置防抖计时使用的时钟。nil 忽略。
func WithWatchClock(clock clockwork.Clock) WatchOption {
	return func(o *watchOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithReloadRetry 设置单次重载的尝试次数（包含首次）与固定间隔。
// 编辑器保存过程中文件可能短暂缺失或内容不完整，重试可以避开这个窗口。
// 默认 3 次、间隔 50ms；attempts 为 0 时忽略，为 1 时不重试。
func WithReloadRetry(attempts uint, delay time.Duration) WatchOption {
	return func(o *watchOptions) {
		if attempts > 0 {
			o.retryAttempts = attempts
		}
		if delay >= 0 {
			o.retryDelay = delay
		}
	}
}
