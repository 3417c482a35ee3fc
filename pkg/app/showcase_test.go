package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/spantime/pkg/config"
	"github.com/decker502/spantime/pkg/settings"
	"github.com/decker502/spantime/pkg/timeline"
)

func newTestShowcase(t *testing.T) (*Showcase, *settings.SettingsManager) {
	t.Helper()
	cfg, err := config.ParseSceneConfig([]byte(`
name: test
timelines:
  - name: once
    length: 4s
    spans:
      - {name: slide, range: "[1s, 3s)", ease: quad_in}
  - name: fast
    length: 2s
    speed: 2
    repeat: {style: wrap_around, times: 1}
`))
	require.NoError(t, err)

	sm := settings.NewSettingsManager(nil)
	s, err := NewShowcase(cfg, sm, 2)
	require.NoError(t, err)
	return s, sm
}

// TestShowcase_Rows 推进后展示数据反映 Span 进度
func TestShowcase_Rows(t *testing.T) {
	s, _ := newTestShowcase(t)
	s.Step(2)

	rows := s.Rows()
	require.Len(t, rows, 2)

	once := rows[0]
	assert.Equal(t, "once", once.Name)
	assert.Equal(t, float32(2), once.Now)
	assert.Equal(t, timeline.Forward, once.Direction)
	require.Len(t, once.Spans, 1)

	slide := once.Spans[0]
	assert.True(t, slide.Visible)
	assert.InDelta(t, 0.5, slide.Progress.NowPercentage, 1e-5)
	assert.InDelta(t, 0.25, slide.Eased, 1e-5)
	assert.Equal(t, float32(1), slide.Min)
	assert.Equal(t, float32(3), slide.Max)

	// 2 倍速推进 4 秒，用掉唯一一次重复
	require.Len(t, s.RecentEvents(), 1)
	assert.True(t, strings.HasPrefix(s.RecentEvents()[0], "fast#3 repeat"), s.RecentEvents()[0])
}

// TestShowcase_Pause 全局暂停时不推进
func TestShowcase_Pause(t *testing.T) {
	s, sm := newTestShowcase(t)
	s.TogglePause()
	assert.True(t, s.Paused())
	assert.True(t, sm.GetSettings().Paused)

	s.Step(1)
	assert.Equal(t, float32(0), s.Rows()[0].Now)

	s.TogglePause()
	s.Step(1)
	assert.Equal(t, float32(1), s.Rows()[0].Now)
}

// TestShowcase_AdjustSpeed 测试全局速度倍率
func TestShowcase_AdjustSpeed(t *testing.T) {
	tests := []struct {
		name     string
		steps    []float32
		expected float32
	}{
		{"加速", []float32{0.5}, 1.5},
		{"减速", []float32{-0.25}, 0.75},
		{"跨过零", []float32{-0.5, -0.5}, -0.5},
		{"跨过零后回到正向", []float32{-0.5, -0.5, 1}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestShowcase(t)
			for _, step := range tt.steps {
				s.AdjustSpeed(step)
			}
			assert.Equal(t, tt.expected, s.SpeedScale())
		})
	}

	t.Run("乘以时间线自身倍率", func(t *testing.T) {
		s, _ := newTestShowcase(t)
		s.AdjustSpeed(0.5)
		s.Step(1)
		rows := s.Rows()
		assert.InDelta(t, 1.5, rows[0].Now, 1e-5)
		// fast: 3 秒推进 2 秒长的时间线，回绕到 1 秒
		assert.InDelta(t, 1, rows[1].Now, 1e-5)
	})
}

// TestShowcase_ReverseAndRestart 测试反转与重新开始
func TestShowcase_ReverseAndRestart(t *testing.T) {
	s, _ := newTestShowcase(t)
	s.Step(3)
	s.Reverse()
	assert.Equal(t, timeline.Backward, s.Rows()[0].Direction)

	s.Step(1)
	assert.Equal(t, float32(2), s.Rows()[0].Now)

	// 反向时起点在终点
	s.Restart()
	assert.Equal(t, float32(4), s.Rows()[0].Now)
	assert.Empty(t, s.RecentEvents())
}

// TestShowcase_ToggleTimeline 单独暂停一条时间线
func TestShowcase_ToggleTimeline(t *testing.T) {
	s, _ := newTestShowcase(t)
	require.True(t, s.ToggleTimeline(0))
	assert.False(t, s.ToggleTimeline(2))
	assert.False(t, s.ToggleTimeline(-1))

	s.Step(0.5)
	rows := s.Rows()
	assert.True(t, rows[0].Paused)
	assert.Equal(t, float32(0), rows[0].Now)
	assert.Equal(t, float32(1), rows[1].Now)
}

// TestRowAt 测试点击命中
func TestRowAt(t *testing.T) {
	bounds := [][2]float32{{50, 100}, {100, 180}}
	assert.Equal(t, 0, rowAt(bounds, 50))
	assert.Equal(t, 1, rowAt(bounds, 100))
	assert.Equal(t, -1, rowAt(bounds, 180))
	assert.Equal(t, -1, rowAt(nil, 10))
}
