package xexpire

import (
	"bytes"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/omeyang/xexpire/pkg/observability/xlog"
)

// fireWhileLocked 持有索引锁推进时钟，等到 value 的计时器已触发、淘汰在锁外等待，
// 然后在锁内执行 fn。返回时锁已释放，在途的淘汰继续执行。
func fireWhileLocked(t *testing.T, s *Set[string], fc *clockwork.FakeClock, value string, d time.Duration, fn func(e *entry[string])) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.index.get(value)
	require.True(t, ok)
	fc.Advance(d)
	require.Eventually(t, func() bool { return e.timer.State() == StateFired }, waitTimeout, time.Millisecond)
	fn(e)
}

func TestElapse_FireWinsOverReset(t *testing.T) {
	s, fc, events := newFakeSet(t)
	require.True(t, s.Add("a", Finite(time.Second)))

	fireWhileLocked(t, s, fc, "a", time.Second, func(*entry[string]) {
		assert.False(t, s.tryResetLocked("a"), "a fired timer cannot be restarted")
	})

	assert.Equal(t, "a", events.expectOne(t).Value)
	assert.False(t, s.Contains("a"))
}

func TestElapse_StaleAfterRemove(t *testing.T) {
	mp, reader := newTestMeter(t)
	s, fc, events := newFakeSet(t, WithName[string]("stale"), WithMeterProvider[string](mp))
	require.True(t, s.Add("a", Finite(time.Second)))

	fireWhileLocked(t, s, fc, "a", time.Second, func(e *entry[string]) {
		s.detachLocked(e)
	})

	assert.Eventually(t, func() bool {
		return metricValue(t, reader, metricTimerStale, "stale") == 1
	}, waitTimeout, 5*time.Millisecond)
	events.expectNone(t)
	assert.False(t, s.Contains("a"))
	assert.Zero(t, metricValue(t, reader, metricEntryExpired, "stale"))
}

func TestElapse_StaleAfterUpdateDuration(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := NewMockLogger(ctrl)
	logger.EXPECT().With(gomock.Any()).Return(logger)
	logger.EXPECT().Debug(gomock.Any(), "xexpire: stale timer firing dropped", gomock.Any()).Times(1)
	logger.EXPECT().Debug(gomock.Any(), "xexpire: set closed", gomock.Any()).Times(1)

	mp, reader := newTestMeter(t)
	s, fc, events := newFakeSet(t,
		WithName[string]("updated"),
		WithLogger[string](logger),
		WithMeterProvider[string](mp),
	)
	require.True(t, s.Add("a", Finite(time.Second)))

	fireWhileLocked(t, s, fc, "a", time.Second, func(*entry[string]) {
		require.True(t, s.tryUpdateDurationLocked("a", Finite(time.Hour)))
	})

	assert.Eventually(t, func() bool {
		return metricValue(t, reader, metricTimerStale, "updated") == 1
	}, waitTimeout, 5*time.Millisecond)
	events.expectNone(t)

	// 条目保留，新计时器仍然有效
	d, ok := s.TryGetDuration("a")
	require.True(t, ok)
	assert.Equal(t, Finite(time.Hour), d)
}

func TestElapse_UpdateValueDuringFire(t *testing.T) {
	s, fc, events := newFakeSet(t)
	require.True(t, s.Add("a", Finite(time.Second)))

	fireWhileLocked(t, s, fc, "a", time.Second, func(*entry[string]) {
		// 计时器保留，重启失败但值更新成功
		assert.True(t, s.tryUpdateValueLocked("a", "b", true))
	})

	// 到期移除的是更新后的值
	assert.Equal(t, "b", events.expectOne(t).Value)
	assert.False(t, s.Contains("a"))
	assert.False(t, s.Contains("b"))
}

func TestElapse_AfterClose(t *testing.T) {
	fc := clockwork.NewFakeClock()
	s, err := New(WithClock[string](fc))
	require.NoError(t, err)
	require.True(t, s.Add("a", Finite(time.Second)))

	s.mu.Lock()
	e, _ := s.index.get("a")
	s.mu.Unlock()

	require.NoError(t, s.Close())
	_, reason, ok := s.evict(Firing{Timer: e.timer, At: fc.Now()})
	assert.False(t, ok)
	assert.Equal(t, staleClosed, reason)
}

func TestElapse_SupersededEntry(t *testing.T) {
	s, fc, _ := newFakeSet(t)
	require.True(t, s.Add("a", Finite(time.Minute)))

	s.mu.Lock()
	e, _ := s.index.get("a")
	// 人为制造索引与所有者表不一致：所有者表仍指向旧条目
	s.index.remove("a")
	s.index.insert(&entry[string]{value: "a", timer: e.timer})
	s.mu.Unlock()

	_, reason, ok := s.evict(Firing{Timer: e.timer, At: fc.Now()})
	assert.False(t, ok)
	assert.Equal(t, staleSuperseded, reason)
}

func TestElapse_LogsExpiry(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := xlog.New().SetOutput(&buf).SetLevel(xlog.LevelDebug).Build()
	require.NoError(t, err)

	s, fc, events := newFakeSet(t, WithLogger[string](logger), WithName[string]("sessions"))
	require.True(t, s.Add("a", Finite(time.Second)))
	fc.Advance(time.Second)
	events.expectOne(t)

	out := buf.String()
	assert.Contains(t, out, `msg="xexpire: entry expired"`)
	assert.Contains(t, out, "component=xexpire")
	assert.Contains(t, out, "set=sessions")
	assert.Contains(t, out, "value=a")
	assert.Contains(t, out, "duration=1s")
}
