package xexpire

import "iter"

// 集合运算。参数序列在加锁前被完整读入一个临时索引（使用与集合相同的相等语义），
// 因此可以把 s.All() 本身作为参数传入。写操作不产生到期通知。

// collect 把 other 去重后读入临时索引。
func (s *Set[T]) collect(other iter.Seq[T]) index[T] {
	idx := s.newIndex(0)
	if other == nil {
		return idx
	}
	for v := range other {
		if _, ok := idx.get(v); !ok {
			idx.insert(&entry[T]{value: v})
		}
	}
	return idx
}

// UnionWith 以默认存储时长加入 other 中尚不存在的值，返回新加入的数量。
// 已存在的值保持原计时器不变。
func (s *Set[T]) UnionWith(other iter.Seq[T]) int {
	in := s.collect(other)
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	in.each(func(e *entry[T]) bool {
		if s.addLocked(e.value, UseDefault()) {
			added++
		}
		return true
	})
	return added
}

// ExceptWith 移除 other 中出现的所有值，返回移除的数量。
func (s *Set[T]) ExceptWith(other iter.Seq[T]) int {
	in := s.collect(other)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	removed := 0
	in.each(func(x *entry[T]) bool {
		if e, ok := s.index.get(x.value); ok {
			s.detachLocked(e)
			removed++
		}
		return true
	})
	s.metrics.recordRemoved(int64(removed))
	return removed
}

// IntersectWith 只保留同时出现在 other 中的值，返回移除的数量。
func (s *Set[T]) IntersectWith(other iter.Seq[T]) int {
	in := s.collect(other)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	var drop []*entry[T]
	s.index.each(func(e *entry[T]) bool {
		if _, ok := in.get(e.value); !ok {
			drop = append(drop, e)
		}
		return true
	})
	for _, e := range drop {
		s.detachLocked(e)
	}
	s.metrics.recordRemoved(int64(len(drop)))
	return len(drop)
}

// SymmetricExceptWith 移除同时存在于两侧的值，并以默认存储时长加入只存在于 other 的值。
func (s *Set[T]) SymmetricExceptWith(other iter.Seq[T]) {
	in := s.collect(other)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	removed := 0
	in.each(func(x *entry[T]) bool {
		if e, ok := s.index.get(x.value); ok {
			s.detachLocked(e)
			removed++
		} else {
			s.addLocked(x.value, UseDefault())
		}
		return true
	})
	s.metrics.recordRemoved(int64(removed))
}

// overlap 在同一临界区内返回 other 去重后的数量、其中同时存在于集合的数量，
// 以及集合当前的大小。
func (s *Set[T]) overlap(other iter.Seq[T]) (total, common, n int) {
	in := s.collect(other)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return in.len(), 0, 0
	}
	n = s.index.len()
	in.each(func(x *entry[T]) bool {
		if _, ok := s.index.get(x.value); ok {
			common++
		}
		return true
	})
	return in.len(), common, n
}

// IsSubsetOf 报告集合中的每个值是否都出现在 other 中。
func (s *Set[T]) IsSubsetOf(other iter.Seq[T]) bool {
	_, common, n := s.overlap(other)
	return common == n
}

// IsProperSubsetOf 报告集合是否为 other 的真子集。
func (s *Set[T]) IsProperSubsetOf(other iter.Seq[T]) bool {
	total, common, n := s.overlap(other)
	return common == n && total > n
}

// IsSupersetOf 报告 other 中的每个值是否都在集合中。
func (s *Set[T]) IsSupersetOf(other iter.Seq[T]) bool {
	total, common, _ := s.overlap(other)
	return common == total
}

// IsProperSupersetOf 报告集合是否为 other 的真超集。
func (s *Set[T]) IsProperSupersetOf(other iter.Seq[T]) bool {
	total, common, n := s.overlap(other)
	return common == total && n > total
}

// Overlaps 报告集合与 other 是否至少有一个公共值。
func (s *Set[T]) Overlaps(other iter.Seq[T]) bool {
	_, common, _ := s.overlap(other)
	return common > 0
}

// SetEquals 报告集合与 other（去重后）是否包含相同的值。
func (s *Set[T]) SetEquals(other iter.Seq[T]) bool {
	total, common, n := s.overlap(other)
	return common == total && n == total
}
