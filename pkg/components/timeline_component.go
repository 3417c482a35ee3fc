package components

import "github.com/decker502/spantime/pkg/timeline"

// TimelineComponent 时间线组件
// 一个实体持有一条时间线，由 TimelineSystem 每帧推进
type TimelineComponent struct {
	Name     string             // 时间线名称，如 "banner"
	Timeline *timeline.Timeline // 主时钟

	// WasCompleted 上一帧结束时是否已完成，用于只在"变为完成"的那一帧发出事件
	WasCompleted bool
}
