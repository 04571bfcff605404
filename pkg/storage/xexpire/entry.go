package xexpire

// entry 把存储的值与其计时器配对。
// 身份只由 value 决定（由索引负责），计时器不参与相等性。
// value 不可变：更新值必须构造新的 entry；timer 可原地替换。
type entry[T any] struct {
	value T
	timer *Timer
}

// index 是 value → entry 的唯一索引，不保证顺序。调用方负责加锁。
type index[T any] interface {
	get(v T) (*entry[T], bool)
	// insert 插入 e，调用方保证 e.value 尚不存在。
	insert(e *entry[T])
	remove(v T) (*entry[T], bool)
	len() int
	each(fn func(e *entry[T]) bool)
	reset()
}

// mapIndex 使用 T 自身的 == 语义。
type mapIndex[T comparable] struct {
	m        map[T]*entry[T]
	capacity int
}

func newMapIndex[T comparable](capacity int) *mapIndex[T] {
	return &mapIndex[T]{m: make(map[T]*entry[T], capacity), capacity: capacity}
}

func (x *mapIndex[T]) get(v T) (*entry[T], bool) {
	e, ok := x.m[v]
	return e, ok
}

func (x *mapIndex[T]) insert(e *entry[T]) { x.m[e.value] = e }

func (x *mapIndex[T]) remove(v T) (*entry[T], bool) {
	e, ok := x.m[v]
	if ok {
		delete(x.m, v)
	}
	return e, ok
}

func (x *mapIndex[T]) len() int { return len(x.m) }

func (x *mapIndex[T]) each(fn func(e *entry[T]) bool) {
	for _, e := range x.m {
		if !fn(e) {
			return
		}
	}
}

func (x *mapIndex[T]) reset() { x.m = make(map[T]*entry[T], x.capacity) }

// hashIndex 使用自定义 Comparer，按哈希分桶、桶内线性比较。
type hashIndex[T any] struct {
	cmp      Comparer[T]
	buckets  map[uint64][]*entry[T]
	n        int
	capacity int
}

func newHashIndex[T any](cmp Comparer[T], capacity int) *hashIndex[T] {
	return &hashIndex[T]{
		cmp:      cmp,
		buckets:  make(map[uint64][]*entry[T], capacity),
		capacity: capacity,
	}
}

func (x *hashIndex[T]) get(v T) (*entry[T], bool) {
	for _, e := range x.buckets[x.cmp.Hash(v)] {
		if x.cmp.Equal(e.value, v) {
			return e, true
		}
	}
	return nil, false
}

func (x *hashIndex[T]) insert(e *entry[T]) {
	h := x.cmp.Hash(e.value)
	x.buckets[h] = append(x.buckets[h], e)
	x.n++
}

func (x *hashIndex[T]) remove(v T) (*entry[T], bool) {
	h := x.cmp.Hash(v)
	bucket := x.buckets[h]
	for i, e := range bucket {
		if !x.cmp.Equal(e.value, v) {
			continue
		}
		last := len(bucket) - 1
		bucket[i] = bucket[last]
		bucket[last] = nil
		if last == 0 {
			delete(x.buckets, h)
		} else {
			x.buckets[h] = bucket[:last]
		}
		x.n--
		return e, true
	}
	return nil, false
}

func (x *hashIndex[T]) len() int { return x.n }

func (x *hashIndex[T]) each(fn func(e *entry[T]) bool) {
	for _, bucket := range x.buckets {
		for _, e := range bucket {
			if !fn(e) {
				return
			}
		}
	}
}

func (x *hashIndex[T]) reset() {
	x.buckets = make(map[uint64][]*entry[T], x.capacity)
	x.n = 0
}
