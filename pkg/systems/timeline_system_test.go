package systems

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/spantime/pkg/components"
	"github.com/decker502/spantime/pkg/ecs"
	"github.com/decker502/spantime/pkg/timeline"
)

// TestTimelineSystem_Update 测试逐条推进与事件
func TestTimelineSystem_Update(t *testing.T) {
	tests := []struct {
		name       string
		opts       timeline.Options
		deltas     []float64
		wantEvents []int // 每帧事件数
		wantNow    float32
	}{
		{
			name:       "不重复：到达终点后下一帧结束",
			deltas:     []float64{3, 3, 1},
			wantEvents: []int{0, 0, 1},
			wantNow:    5,
		},
		{
			name:       "无限回绕：每次越界都发出事件",
			opts:       timeline.Options{Repeat: &timeline.Repeat{Policy: timeline.Infinite(), Style: timeline.WrapAround}},
			deltas:     []float64{4, 4, 4},
			wantEvents: []int{0, 1, 1},
			wantNow:    2,
		},
		{
			name:       "反向播放",
			opts:       timeline.Options{Direction: timeline.Backward},
			deltas:     []float64{2, 4, 1},
			wantEvents: []int{0, 0, 1},
			wantNow:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := ecs.NewEntityManager()
			id := addTimeline(t, em, "tl", 5*time.Second, tt.opts)
			sys := NewTimelineSystem(em)

			for i, d := range tt.deltas {
				events := sys.Update(d)
				require.Len(t, events, tt.wantEvents[i], "frame %d", i)
			}

			comp, _ := ecs.GetComponent[*components.TimelineComponent](em, id)
			assert.InDelta(t, tt.wantNow, comp.Timeline.Elapsed().Now, 1e-5)
		})
	}
}

// TestTimelineSystem_SkipsNilTimeline 没有 Timeline 的组件被忽略
func TestTimelineSystem_SkipsNilTimeline(t *testing.T) {
	em := ecs.NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &components.TimelineComponent{Name: "empty"})

	sys := NewTimelineSystem(em)
	assert.NotPanics(t, func() { sys.Update(1) })
}

// TestTickTimeline_Event 测试事件内容
func TestTickTimeline_Event(t *testing.T) {
	tl, err := timeline.NewWithOptions(2*time.Second, timeline.Options{
		Repeat: &timeline.Repeat{Policy: timeline.Times(3), Style: timeline.PingPong},
	})
	require.NoError(t, err)
	comp := &components.TimelineComponent{Name: "pp", Timeline: tl}

	ev, ended := tickTimeline(7, comp, 3)
	require.True(t, ended)
	assert.Equal(t, ecs.EntityID(7), ev.Timeline)
	assert.Equal(t, timeline.Backward, ev.Direction)
	assert.True(t, ev.HasRepeat)
	assert.Equal(t, int32(2), ev.RemainingRepeats())
	assert.False(t, ev.IsFinished())

	// 暂停时不推进也不发事件
	tl.SetPaused(true)
	_, ended = tickTimeline(7, comp, 10)
	assert.False(t, ended)
	assert.InDelta(t, 1, tl.Elapsed().Now, 1e-5)
}
