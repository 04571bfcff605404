package xexpiremap

import (
	"maps"
	"slices"
	"sync"

	"github.com/omeyang/xexpire/pkg/storage/xexpire"
)

// Map 是 key → value 的映射，value 同时是底层 Set 的成员并随其到期。
// key 与 value 均唯一。所有方法并发安全。
type Map[K comparable, V comparable] struct {
	set *xexpire.Set[V]

	mu      sync.Mutex
	byKey   map[K]V
	byValue map[V]K

	closeOnce   sync.Once
	unsubscribe func()
}

// New 创建基于 set 的 Map，并订阅 set 的到期通知。set 为 nil 时 panic。
// 关闭 Map 不会关闭 set。
func New[K comparable, V comparable](set *xexpire.Set[V]) *Map[K, V] {
	if set == nil {
		panic("xexpiremap: nil set")
	}
	m := &Map[K, V]{
		set:     set,
		byKey:   make(map[K]V),
		byValue: make(map[V]K),
	}
	m.unsubscribe = set.OnExpired(m.onExpired)
	return m
}

// Store 以存储时长 d 保存 key → value。
// key 已存在，或 value 已在底层 Set 中时返回 false 且不做修改。
func (m *Map[K, V]) Store(key K, value V, d xexpire.StorageDuration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byKey[key]; ok {
		return false
	}
	if !m.set.Add(value, d) {
		return false
	}
	m.byKey[key] = value
	m.byValue[value] = key
	return true
}

// Load 返回 key 对应的值。
func (m *Map[K, V]) Load(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.byKey[key]
	return v, ok
}

// Delete 移除 key 及其值（取消值的计时器，不产生到期通知）。
func (m *Map[K, V]) Delete(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.byKey[key]
	if !ok {
		return false
	}
	m.set.Remove(v)
	delete(m.byKey, key)
	delete(m.byValue, v)
	return true
}

// Len 返回 key 的数量。
func (m *Map[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byKey)
}

// Keys 返回当前所有 key 的快照，顺序不保证。
func (m *Map[K, V]) Keys() []K {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Collect(maps.Keys(m.byKey))
}

// Close 取消到期订阅。幂等。
func (m *Map[K, V]) Close() {
	m.closeOnce.Do(m.unsubscribe)
}

func (m *Map[K, V]) onExpired(ev xexpire.Expired[V]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.byValue[ev.Value]
	if !ok {
		return
	}
	// 通知在途期间值可能已被删除并以新条目重新加入
	if m.set.Contains(ev.Value) {
		return
	}
	delete(m.byValue, ev.Value)
	delete(m.byKey, key)
}
