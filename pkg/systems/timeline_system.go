package systems

import (
	"github.com/rs/zerolog/log"

	"github.com/decker502/spantime/pkg/components"
	"github.com/decker502/spantime/pkg/ecs"
)

// TimelineSystem 推进所有时间线
//
// 单独使用时按 ID 顺序逐条推进；Runner 会把同样的逻辑分发到多个 goroutine。
type TimelineSystem struct {
	entityManager *ecs.EntityManager
}

// NewTimelineSystem 创建时间线系统
func NewTimelineSystem(em *ecs.EntityManager) *TimelineSystem {
	return &TimelineSystem{
		entityManager: em,
	}
}

// Update 推进所有时间线 deltaTime 秒，返回本帧产生的结束事件
func (s *TimelineSystem) Update(deltaTime float64) []TimelineEnded {
	var events []TimelineEnded

	entities := ecs.GetEntitiesWith1[*components.TimelineComponent](s.entityManager)
	for _, id := range entities {
		comp, ok := ecs.GetComponent[*components.TimelineComponent](s.entityManager, id)
		if !ok || comp.Timeline == nil {
			continue
		}
		if ev, ended := tickTimeline(id, comp, float32(deltaTime)); ended {
			log.Debug().
				Str("component", "TimelineSystem").
				Str("timeline", comp.Name).
				Bool("finished", ev.IsFinished()).
				Msg("时间线到达边界")
			events = append(events, ev)
		}
	}
	return events
}

// tickTimeline 推进一条时间线，需要通知时返回事件
//
// 暂停的时间线不推进，也不发出事件。
// 只修改 comp 自身，可以在不同 goroutine 中处理不同的时间线。
func tickTimeline(id ecs.EntityID, comp *components.TimelineComponent, delta float32) (TimelineEnded, bool) {
	tl := comp.Timeline
	if tl.Paused() {
		return TimelineEnded{}, false
	}

	tl.Tick(delta)

	completed := tl.IsCompleted()
	becameCompleted := completed && !comp.WasCompleted
	comp.WasCompleted = completed

	if !tl.Elapsed().Repeated && !becameCompleted {
		return TimelineEnded{}, false
	}

	ev := TimelineEnded{
		Timeline:  id,
		Name:      comp.Name,
		Direction: tl.Direction(),
		Completed: completed,
	}
	ev.Repeat, ev.HasRepeat = tl.Repeat()
	return ev, true
}
