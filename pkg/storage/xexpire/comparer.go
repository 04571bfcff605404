package xexpire

import (
	"hash/maphash"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Comparer 为值类型提供自定义的哈希与相等语义。
// 约束：Equal(a, b) 为 true 时 Hash(a) 必须等于 Hash(b)。
type Comparer[T any] interface {
	Hash(v T) uint64
	Equal(a, b T) bool
}

type funcComparer[T any] struct {
	hash  func(T) uint64
	equal func(a, b T) bool
}

func (c funcComparer[T]) Hash(v T) uint64   { return c.hash(v) }
func (c funcComparer[T]) Equal(a, b T) bool { return c.equal(a, b) }

// NewComparer 由哈希函数与相等函数构造 Comparer。任一为 nil 时 panic。
func NewComparer[T any](hash func(T) uint64, equal func(a, b T) bool) Comparer[T] {
	if hash == nil || equal == nil {
		panic("xexpire: nil hash or equal func")
	}
	return funcComparer[T]{hash: hash, equal: equal}
}

// FoldStringComparer 返回大小写不敏感的字符串 Comparer，哈希基于 xxhash。
func FoldStringComparer() Comparer[string] {
	return NewComparer(
		func(s string) uint64 { return xxhash.Sum64String(strings.ToLower(s)) },
		func(a, b string) bool { return strings.ToLower(a) == strings.ToLower(b) },
	)
}

// KeyComparer 以 key(v) 作为身份：key 相同的两个值视为相等。
// 适合"按 ID 去重"的结构体值。
func KeyComparer[T any, K comparable](key func(T) K) Comparer[T] {
	if key == nil {
		panic("xexpire: nil key func")
	}
	seed := maphash.MakeSeed()
	return NewComparer(
		func(v T) uint64 { return maphash.Comparable(seed, key(v)) },
		func(a, b T) bool { return key(a) == key(b) },
	)
}
