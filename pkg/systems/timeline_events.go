package systems

import (
	"fmt"

	"github.com/decker502/spantime/pkg/ecs"
	"github.com/decker502/spantime/pkg/timeline"
)

// TimelineEnded 时间线到达边界的事件
//
// 每次发生重复（即将从头/折返继续播放）时发出一次，
// 真正结束（重复预算用尽并停在终点）的那一帧再发出一次。
type TimelineEnded struct {
	Timeline  ecs.EntityID
	Name      string
	Direction timeline.Direction // 事件发生时（tick 之后）的方向

	// Repeat 事件发生时的重复状态，HasRepeat 为 false 时无效
	Repeat    timeline.Repeat
	HasRepeat bool

	// Completed 时间线是否已真正结束
	Completed bool
}

// IsFinished 是否真正结束（而不是即将重复）
func (e TimelineEnded) IsFinished() bool {
	return e.Completed
}

// RemainingRepeats 剩余重复次数；无限重复返回 -1，未配置重复返回 0
func (e TimelineEnded) RemainingRepeats() int32 {
	if !e.HasRepeat {
		return 0
	}
	return e.Repeat.Policy.Remaining()
}

func (e TimelineEnded) String() string {
	state := "repeat"
	if e.Completed {
		state = "finished"
	}
	if !e.HasRepeat {
		return fmt.Sprintf("%s#%d %s (%v)", e.Name, e.Timeline, state, e.Direction)
	}
	return fmt.Sprintf("%s#%d %s (%v, %v %v)", e.Name, e.Timeline, state, e.Direction, e.Repeat.Style, e.Repeat.Policy)
}
