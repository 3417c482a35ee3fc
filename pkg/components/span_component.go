package components

import (
	"github.com/decker502/spantime/pkg/ecs"
	"github.com/decker502/spantime/pkg/timeline"
)

// SpanComponent Span 组件
// 把一段局部时间窗口挂到某条时间线上，SpanTrackerSystem 每帧为它计算进度
type SpanComponent struct {
	Name     string       // Span 名称，如 "slide"
	Timeline ecs.EntityID // 所属时间线实体
	Span     timeline.Span
	Ease     string // 缓动曲线名称（见 utils.EaseByName），为空表示线性
	Disabled bool   // 禁用后不再计算进度
}
