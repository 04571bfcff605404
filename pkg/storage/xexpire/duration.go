package xexpire

import (
	"fmt"
	"strings"
	"time"
)

type durationKind uint8

const (
	kindDefault durationKind = iota
	kindUnlimited
	kindFinite
)

// StorageDuration 描述条目的存储时长，三选一：
//   - Unlimited：永不过期
//   - UseDefault：使用容器构造时配置的默认值
//   - Finite(d)：精确的有限时长，d >= 0
//
// 零值为 UseDefault。Finite(0) 与 UseDefault 是不同的值：
// Finite(0) 表示在下一次调度时机即被淘汰，而不是回退到默认值。
type StorageDuration struct {
	kind durationKind
	d    time.Duration
}

// Unlimited 返回永不过期的存储时长。
func Unlimited() StorageDuration {
	return StorageDuration{kind: kindUnlimited}
}

// UseDefault 返回"使用容器默认值"的存储时长，等价于零值。
func UseDefault() StorageDuration {
	return StorageDuration{kind: kindDefault}
}

// Finite 返回精确为 d 的有限存储时长。
// d 为负值属于调用方的编程错误，会 panic（错误包装 [ErrInvalidDuration]）。
// 需要校验外部输入时使用 [NewFinite]。
func Finite(d time.Duration) StorageDuration {
	sd, err := NewFinite(d)
	if err != nil {
		panic(err)
	}
	return sd
}

// NewFinite 是 Finite 的非 panic 版本，d 为负值时返回 [ErrInvalidDuration]。
func NewFinite(d time.Duration) (StorageDuration, error) {
	if d < 0 {
		return StorageDuration{}, fmt.Errorf("%w: got %s", ErrInvalidDuration, d)
	}
	return StorageDuration{kind: kindFinite, d: d}, nil
}

// IsUnlimited 报告是否为永不过期。
func (s StorageDuration) IsUnlimited() bool { return s.kind == kindUnlimited }

// IsDefault 报告是否为"使用默认值"。
func (s StorageDuration) IsDefault() bool { return s.kind == kindDefault }

// IsFinite 报告是否为有限时长（包括 0）。
func (s StorageDuration) IsFinite() bool { return s.kind == kindFinite }

// Duration 返回有限时长；非 Finite 时返回 (0, false)。
func (s StorageDuration) Duration() (time.Duration, bool) {
	if s.kind != kindFinite {
		return 0, false
	}
	return s.d, true
}

// Or 在 s 为 UseDefault 时返回 fallback，否则返回 s。
func (s StorageDuration) Or(fallback StorageDuration) StorageDuration {
	if s.IsDefault() {
		return fallback
	}
	return s
}

// String 返回可读表示："unlimited"、"default" 或 time.Duration 文本。
func (s StorageDuration) String() string {
	switch s.kind {
	case kindUnlimited:
		return "unlimited"
	case kindFinite:
		return s.d.String()
	default:
		return "default"
	}
}

// MarshalText 实现 encoding.TextMarshaler，输出与 String 一致。
func (s StorageDuration) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，支持从 YAML/JSON 配置直接解码。
func (s *StorageDuration) UnmarshalText(text []byte) error {
	parsed, err := ParseStorageDuration(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStorageDuration 解析存储时长文本（大小写不敏感，自动 TrimSpace）：
//   - "unlimited"、"never"、"infinite" → Unlimited
//   - "default" 或空串 → UseDefault
//   - 其余按 time.ParseDuration 解析为 Finite，负值返回 [ErrInvalidDuration]
func ParseStorageDuration(s string) (StorageDuration, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unlimited", "never", "infinite":
		return Unlimited(), nil
	case "default", "":
		return UseDefault(), nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return StorageDuration{}, fmt.Errorf("xexpire: parse storage duration %q: %w", s, err)
	}
	return NewFinite(d)
}
