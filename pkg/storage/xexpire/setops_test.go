package xexpire

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntSet(t *testing.T, values ...int) *Set[int] {
	t.Helper()
	s, err := New(WithSeed(values...))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetOps_UnionWith(t *testing.T) {
	s, err := New(WithDefaultDuration[int](Finite(time.Hour)), WithSeed(1, 2))
	require.NoError(t, err)
	defer s.Close()

	require.True(t, s.TryUpdateDuration(1, Unlimited()))
	assert.Equal(t, 2, s.UnionWith(slices.Values([]int{1, 3, 3, 4})))
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, s.Values())

	d, _ := s.TryGetDuration(1)
	assert.Equal(t, Unlimited(), d, "existing timers are untouched")
	d, _ = s.TryGetDuration(3)
	assert.Equal(t, Finite(time.Hour), d)

	assert.Zero(t, s.UnionWith(nil))
}

func TestSetOps_ExceptWith(t *testing.T) {
	s := newIntSet(t, 1, 2, 3)
	assert.Equal(t, 2, s.ExceptWith(slices.Values([]int{2, 3, 3, 9})))
	assert.Equal(t, []int{1}, s.Values())
}

func TestSetOps_IntersectWith(t *testing.T) {
	s := newIntSet(t, 1, 2, 3, 4)
	assert.Equal(t, 2, s.IntersectWith(slices.Values([]int{2, 4, 6})))
	assert.ElementsMatch(t, []int{2, 4}, s.Values())

	assert.Equal(t, 2, s.IntersectWith(nil))
	assert.Zero(t, s.Len())
}

func TestSetOps_SymmetricExceptWith(t *testing.T) {
	s := newIntSet(t, 1, 2, 3)
	s.SymmetricExceptWith(slices.Values([]int{3, 4, 4, 5}))
	assert.ElementsMatch(t, []int{1, 2, 4, 5}, s.Values())
}

func TestSetOps_Predicates(t *testing.T) {
	s := newIntSet(t, 1, 2, 3)
	seq := func(v ...int) func(func(int) bool) { return slices.Values(v) }

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"subset of superset", s.IsSubsetOf(seq(1, 2, 3, 4)), true},
		{"subset of equal", s.IsSubsetOf(seq(3, 2, 1, 1)), true},
		{"not subset", s.IsSubsetOf(seq(1, 2)), false},
		{"proper subset", s.IsProperSubsetOf(seq(1, 2, 3, 4)), true},
		{"equal is not proper subset", s.IsProperSubsetOf(seq(1, 2, 3, 3)), false},
		{"superset", s.IsSupersetOf(seq(1, 2)), true},
		{"superset of empty", s.IsSupersetOf(nil), true},
		{"not superset", s.IsSupersetOf(seq(1, 4)), false},
		{"proper superset", s.IsProperSupersetOf(seq(2, 2)), true},
		{"equal is not proper superset", s.IsProperSupersetOf(seq(1, 2, 3)), false},
		{"overlaps", s.Overlaps(seq(9, 3)), true},
		{"disjoint", s.Overlaps(seq(7, 8)), false},
		{"equals with duplicates", s.SetEquals(seq(3, 1, 2, 2)), true},
		{"not equal", s.SetEquals(seq(1, 2, 4)), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got, tt.name)
	}
}

func TestSetOps_SelfAsArgument(t *testing.T) {
	s := newIntSet(t, 1, 2, 3)

	assert.True(t, s.SetEquals(s.All()))
	assert.True(t, s.IsSubsetOf(s.All()))
	assert.False(t, s.IsProperSubsetOf(s.All()))

	s.SymmetricExceptWith(s.All())
	assert.Zero(t, s.Len())
}

func TestSetOps_CustomComparer(t *testing.T) {
	s, err := New(WithComparer(FoldStringComparer()), WithSeed("Alpha", "Beta"))
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, s.SetEquals(slices.Values([]string{"ALPHA", "beta", "alpha"})))
	assert.Equal(t, 1, s.ExceptWith(slices.Values([]string{"BETA"})))
	assert.Equal(t, []string{"Alpha"}, s.Values())
}
