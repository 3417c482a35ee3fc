package timeline

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTimeline(t *testing.T, length time.Duration) *Timeline {
	t.Helper()
	tl, err := New(length)
	require.NoError(t, err)
	return tl
}

// TestNew 测试创建时间线的默认值
func TestNew(t *testing.T) {
	tl := newTimeline(t, 5*time.Second)
	assert.Equal(t, Forward, tl.Direction())
	assert.False(t, tl.Paused())
	assert.Equal(t, float32(1), tl.SpeedScale())
	_, ok := tl.Repeat()
	assert.False(t, ok)
	assert.Equal(t, float32(5), tl.LengthSeconds())

	_, err := New(-time.Second)
	assert.True(t, errors.Is(err, ErrNegativeLength))
}

// TestTick_ClampsWithoutRepeat 测试没有重复时 now 始终在 [0, length] 内
func TestTick_ClampsWithoutRepeat(t *testing.T) {
	deltas := []float32{0, 0.1, 0.7, 1, 2.5, 4.9, 13}
	for _, d := range deltas {
		tl := newTimeline(t, 5*time.Second)
		for i := 0; i < 20; i++ {
			tl.Tick(d)
			now := tl.Elapsed().Now
			assert.GreaterOrEqual(t, now, float32(0), "delta=%v", d)
			assert.LessOrEqual(t, now, float32(5), "delta=%v", d)
		}
	}

	back := newTimeline(t, 5*time.Second)
	back.SetDirection(Backward)
	back.SetPosition(5)
	back.Collapse()
	for i := 0; i < 10; i++ {
		back.Tick(1.3)
		assert.GreaterOrEqual(t, back.Elapsed().Now, float32(0))
	}
	assert.Equal(t, float32(0), back.Elapsed().Now)
	assert.True(t, back.IsCompleted())
}

// TestTick_WrapAroundOvershoot 测试一次 tick 越过终点的锯齿波映射
func TestTick_WrapAroundOvershoot(t *testing.T) {
	tl := newTimeline(t, 5*time.Second)
	tl.SetRepeat(InfiniteCounted(), WrapAround)

	tl.Tick(6)

	e := tl.Elapsed()
	assert.InDelta(t, 1.0, e.Now, 1e-5)
	assert.InDelta(t, 1.2, e.NowPeriod, 1e-5)
	assert.Equal(t, float32(0), e.Previous)
	assert.True(t, e.Repeated)
	assert.Equal(t, WrapAround, e.RepeatStyle)
	assert.Equal(t, int32(1), e.Crossings)

	r, ok := tl.Repeat()
	require.True(t, ok)
	assert.Equal(t, int32(1), r.Policy.TimesRepeated)
	assert.Equal(t, Forward, tl.Direction())
}

// TestTick_WrapAroundMultipleCrossings 测试一帧跨越多个周期
func TestTick_WrapAroundMultipleCrossings(t *testing.T) {
	tl := newTimeline(t, 2*time.Second)
	tl.SetRepeat(InfiniteCounted(), WrapAround)

	tl.Tick(7)

	e := tl.Elapsed()
	assert.InDelta(t, 1.0, e.Now, 1e-5)
	assert.InDelta(t, 3.5, e.NowPeriod, 1e-5)
	assert.Equal(t, int32(3), e.Crossings)
	r, _ := tl.Repeat()
	assert.Equal(t, int32(3), r.Policy.TimesRepeated)
}

// TestTick_PingPongFlip 测试三角波折返翻转方向
func TestTick_PingPongFlip(t *testing.T) {
	tl := newTimeline(t, 5*time.Second)
	tl.SetRepeat(Infinite(), PingPong)
	tl.SetPosition(3)
	tl.Collapse()

	tl.Tick(3)

	e := tl.Elapsed()
	assert.InDelta(t, 4.0, e.Now, 1e-5)
	assert.InDelta(t, 1.2, e.NowPeriod, 1e-5)
	assert.Equal(t, Backward, tl.Direction())
	assert.Equal(t, PingPong, e.RepeatStyle)

	// 反向越过 0 点后再次翻转
	tl.Tick(5)
	e = tl.Elapsed()
	assert.InDelta(t, 1.0, e.Now, 1e-5)
	assert.Equal(t, Forward, tl.Direction())
	assert.True(t, e.Repeated)
}

// TestTick_TimesPinsAtBoundary 测试 Times(2) 用尽后停在终点
func TestTick_TimesPinsAtBoundary(t *testing.T) {
	tl := newTimeline(t, 5*time.Second)
	tl.SetRepeat(Times(2), WrapAround)

	tl.Tick(5)
	tl.Tick(5)
	r, _ := tl.Repeat()
	require.True(t, r.Policy.Exhausted())
	assert.Equal(t, float32(0), tl.Elapsed().Now)
	assert.False(t, tl.IsCompleted(), "wrapped back to 0, still has a pass to play")

	tl.Tick(5)
	assert.Equal(t, float32(5), tl.Elapsed().Now)
	assert.True(t, tl.IsCompleted())

	// 之后的 tick 不再前进
	for i := 0; i < 3; i++ {
		tl.Tick(2)
		assert.Equal(t, float32(5), tl.Elapsed().Now)
		assert.Equal(t, float32(5), tl.Elapsed().Previous)
		assert.True(t, tl.IsCompleted())
	}
}

// TestTick_PartialAdvance 测试预算不足以覆盖所有越界时停在边界
func TestTick_PartialAdvance(t *testing.T) {
	t.Run("锯齿波停在终点", func(t *testing.T) {
		tl := newTimeline(t, 5*time.Second)
		tl.SetRepeat(Times(1), WrapAround)

		tl.Tick(12)

		e := tl.Elapsed()
		assert.Equal(t, float32(5), e.Now)
		assert.Equal(t, int32(1), e.Crossings)
		assert.True(t, e.Repeated)
	})

	t.Run("三角波停在折返后的终点", func(t *testing.T) {
		tl := newTimeline(t, 5*time.Second)
		tl.SetRepeat(Times(1), PingPong)

		tl.Tick(12)

		assert.Equal(t, float32(0), tl.Elapsed().Now)
		assert.Equal(t, Backward, tl.Direction())
		assert.True(t, tl.IsCompleted())
	})
}

// TestTick_Paused 测试暂停时 tick 不做任何事
func TestTick_Paused(t *testing.T) {
	tl := newTimeline(t, 5*time.Second)
	tl.Tick(1)
	tl.SetPaused(true)
	before := tl.Elapsed()

	tl.Tick(2)

	assert.Equal(t, before, tl.Elapsed())
}

// TestTick_SpeedScale 测试速度倍率
func TestTick_SpeedScale(t *testing.T) {
	tl := newTimeline(t, 10*time.Second)
	tl.SetSpeedScale(2)
	tl.Tick(1.5)
	assert.InDelta(t, 3.0, tl.Elapsed().Now, 1e-5)

	tl.SetSpeedScale(-1)
	assert.Equal(t, Backward, tl.MotionDirection())
	tl.Tick(1)
	assert.InDelta(t, 2.0, tl.Elapsed().Now, 1e-5)
}

// TestTick_NaNPanics 测试 NaN delta 直接 panic
func TestTick_NaNPanics(t *testing.T) {
	tl := newTimeline(t, 5*time.Second)
	assert.Panics(t, func() {
		tl.Tick(float32(math.NaN()))
	})
}

// TestTick_NonFiniteSpeedScale 测试速度倍率不接受 NaN 和 ±Inf
func TestTick_NonFiniteSpeedScale(t *testing.T) {
	scales := []float32{float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1))}
	for _, scale := range scales {
		tl := newTimeline(t, 5*time.Second)
		assert.Panics(t, func() {
			tl.SetSpeedScale(scale)
		}, "scale=%v", scale)
		assert.Equal(t, float32(1), tl.SpeedScale())
	}

	t.Run("无穷大 delta 乘以 0 倍率得到 NaN", func(t *testing.T) {
		tl := newTimeline(t, 5*time.Second)
		tl.SetSpeedScale(0)
		assert.Panics(t, func() {
			tl.Tick(float32(math.Inf(1)))
		})
	})
}

// TestTick_HugeDeltaSaturates 越界次数超出 int32 范围时按饱和处理，不会倒扣重复次数
func TestTick_HugeDeltaSaturates(t *testing.T) {
	styles := []RepeatStyle{WrapAround, PingPong}
	for _, style := range styles {
		t.Run(style.String(), func(t *testing.T) {
			tl := newTimeline(t, time.Millisecond)
			tl.SetRepeat(Times(5), style)

			tl.Tick(0.0015)
			tl.Tick(0.001)
			r, _ := tl.Repeat()
			require.Equal(t, int32(2), r.Policy.TimesRepeated)

			tl.Tick(3e6)
			e := tl.Elapsed()
			r, _ = tl.Repeat()
			assert.Equal(t, int32(5), r.Policy.TimesRepeated)
			assert.True(t, r.Policy.Exhausted())
			assert.Equal(t, int32(3), e.Crossings)
			assert.GreaterOrEqual(t, e.Now, float32(0))
			assert.LessOrEqual(t, e.Now, float32(0.001))

			// 预算用尽后至多再走一程就结束
			tl.Tick(3e6)
			tl.Tick(3e6)
			assert.True(t, tl.IsCompleted())
			assert.GreaterOrEqual(t, tl.Elapsed().Crossings, int32(0))
		})
	}

	t.Run("反向", func(t *testing.T) {
		tl := newTimeline(t, time.Millisecond)
		tl.SetRepeat(Times(5), WrapAround)
		tl.SetDirection(Backward)
		tl.SetPosition(0.001)
		tl.Collapse()

		tl.Tick(3e6)
		r, _ := tl.Repeat()
		assert.Equal(t, int32(5), r.Policy.TimesRepeated)
		assert.Equal(t, int32(5), tl.Elapsed().Crossings)
	})
}

// TestFloorCount 测试 floor 的 int32 饱和
func TestFloorCount(t *testing.T) {
	tests := []struct {
		name   string
		period float32
		want   int32
	}{
		{"正小数", 2.7, 2},
		{"负小数", -0.2, -1},
		{"超出上界", 3e9, math.MaxInt32},
		{"超出下界", -3e9, math.MinInt32 + 1},
		{"正无穷", float32(math.Inf(1)), math.MaxInt32},
		{"负无穷", float32(math.Inf(-1)), math.MinInt32 + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, floorCount(tt.period))
		})
	}
}

// TestTick_ZeroLength 测试零长度时间线始终完成
func TestTick_ZeroLength(t *testing.T) {
	tl := newTimeline(t, 0)
	assert.True(t, tl.IsCompleted())
	assert.NotPanics(t, func() {
		tl.Tick(1)
	})
	assert.Equal(t, float32(0), tl.Elapsed().Now)
}

// TestIsCompleted 测试完成判定
func TestIsCompleted(t *testing.T) {
	tl := newTimeline(t, 5*time.Second)
	assert.False(t, tl.IsCompleted())

	tl.Tick(4)
	tl.Tick(1)
	// 第一次到达终点：period 与上一帧不同
	assert.Equal(t, float32(5), tl.Elapsed().Now)
	assert.False(t, tl.IsCompleted())

	tl.Tick(1)
	assert.True(t, tl.IsCompleted())

	// 无限重复永远不会完成
	inf := newTimeline(t, 5*time.Second)
	inf.SetRepeat(Infinite(), WrapAround)
	for i := 0; i < 10; i++ {
		inf.Tick(3)
		assert.False(t, inf.IsCompleted())
	}
}

// TestSetPosition 测试跳转只更新 now
func TestSetPosition(t *testing.T) {
	tl := newTimeline(t, 5*time.Second)
	tl.Tick(1)

	tl.SetPosition(3)
	e := tl.Elapsed()
	assert.Equal(t, float32(3), e.Now)
	assert.InDelta(t, 0.6, e.NowPeriod, 1e-6)
	assert.Equal(t, float32(0), e.Previous)

	tl.Collapse()
	assert.Equal(t, float32(3), tl.Elapsed().Previous)

	tl.SetPosition(100)
	assert.Equal(t, float32(5), tl.Elapsed().Now)
	tl.SetPosition(-1)
	assert.Equal(t, float32(0), tl.Elapsed().Now)
}

// TestRestart 测试重新开始
func TestRestart(t *testing.T) {
	tl := newTimeline(t, 5*time.Second)
	tl.SetRepeat(Times(1), WrapAround)
	tl.Tick(7)
	tl.Tick(5)
	tl.Tick(5)
	require.True(t, tl.IsCompleted())

	tl.Restart()
	assert.False(t, tl.IsCompleted())
	assert.Equal(t, Elapsed{}, tl.Elapsed())
	r, _ := tl.Repeat()
	assert.Equal(t, int32(0), r.Policy.TimesRepeated)

	tl.SetDirection(Backward)
	tl.Restart()
	assert.Equal(t, float32(5), tl.Elapsed().Now)
	assert.Equal(t, float32(5), tl.Elapsed().Previous)
}
