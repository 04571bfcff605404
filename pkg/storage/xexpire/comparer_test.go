package xexpire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type session struct {
	ID   string
	User string
}

func TestFoldStringComparer(t *testing.T) {
	c := FoldStringComparer()
	assert.True(t, c.Equal("Hello", "hELLO"))
	assert.False(t, c.Equal("hello", "world"))
	assert.Equal(t, c.Hash("Hello"), c.Hash("HELLO"))
}

func TestKeyComparer(t *testing.T) {
	c := KeyComparer(func(s session) string { return s.ID })
	a := session{ID: "1", User: "alice"}
	b := session{ID: "1", User: "bob"}

	assert.True(t, c.Equal(a, b))
	assert.Equal(t, c.Hash(a), c.Hash(b))
	assert.False(t, c.Equal(a, session{ID: "2"}))

	assert.Panics(t, func() { KeyComparer[session, string](nil) })
}

func TestNewComparer_Nil(t *testing.T) {
	assert.Panics(t, func() { NewComparer[int](nil, func(a, b int) bool { return a == b }) })
	assert.Panics(t, func() { NewComparer(func(int) uint64 { return 0 }, nil) })
}

func TestSet_KeyComparer(t *testing.T) {
	s, err := New(WithComparer(KeyComparer(func(s session) string { return s.ID })))
	require.NoError(t, err)
	defer s.Close()

	require.True(t, s.Add(session{ID: "1", User: "alice"}, Finite(time.Minute)))
	assert.False(t, s.Add(session{ID: "1", User: "bob"}, Finite(time.Minute)))

	// 按 ID 定位，替换为新的表示
	require.True(t, s.TryUpdateValue(session{ID: "1"}, session{ID: "1", User: "carol"}, false))
	v, ok := s.TryGetValue(session{ID: "1"})
	require.True(t, ok)
	assert.Equal(t, "carol", v.User)
}

// 所有值哈希冲突时仍然正确。
func TestSet_HashCollisions(t *testing.T) {
	c := NewComparer(func(int) uint64 { return 7 }, func(a, b int) bool { return a == b })
	s, err := New(WithComparer(c))
	require.NoError(t, err)
	defer s.Close()

	for i := range 10 {
		require.True(t, s.Add(i, Unlimited()))
	}
	assert.Equal(t, 10, s.Len())

	for _, i := range []int{0, 9, 4} {
		require.True(t, s.Remove(i))
	}
	assert.ElementsMatch(t, []int{1, 2, 3, 5, 6, 7, 8}, s.Values())
	assert.False(t, s.Contains(4))

	s.Clear()
	assert.Zero(t, s.Len())
	require.True(t, s.Add(4, Unlimited()))
}
