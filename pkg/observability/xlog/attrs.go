package xlog

import (
	"fmt"
	"log/slog"
	"time"
)

// 常用属性 Key
const (
	KeyError     = "error"
	KeyDuration  = "duration"
	KeyCount     = "count"
	KeyComponent = "component"
	KeyOperation = "operation"
	KeyValue     = "value"
)

// Err 创建错误属性；err 为 nil 时返回空属性（会被忽略）。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 创建可读的耗时属性（如 "1m30s"）。
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// DurationText 以 d 的文本形式创建耗时属性，用于 time.Duration 之外的时长类型
// （例如取值可能为 "unlimited" 的存储时长）。d 为 nil 时返回空属性。
func DurationText(d fmt.Stringer) slog.Attr {
	if d == nil {
		return slog.Attr{}
	}
	return slog.String(KeyDuration, d.String())
}

// Component 创建组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 创建操作名属性
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Count 创建计数属性
func Count(n int64) slog.Attr {
	return slog.Int64(KeyCount, n)
}

// Value 创建被操作值的属性
func Value(v any) slog.Attr {
	return slog.Any(KeyValue, v)
}
