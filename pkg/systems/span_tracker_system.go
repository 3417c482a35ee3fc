package systems

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/decker502/spantime/pkg/components"
	"github.com/decker502/spantime/pkg/ecs"
	"github.com/decker502/spantime/pkg/timeline"
)

// spanRef 投影阶段需要的 Span 快照
type spanRef struct {
	id   ecs.EntityID
	span timeline.Span
}

// spanResult 单个 Span 的投影结果，visible 为 false 时清除进度
type spanResult struct {
	id       ecs.EntityID
	progress timeline.SpanProgress
	visible  bool
}

// SpanTrackerSystem 把时间线的 (previous, now) 投影到其下每个 Span
//
// 进度保存在 span ID -> SpanProgress 的映射里；
// 某帧不可见的 Span 没有进度，Progress 返回 false。
type SpanTrackerSystem struct {
	entityManager *ecs.EntityManager

	progress   map[ecs.EntityID]timeline.SpanProgress
	byTimeline map[ecs.EntityID][]spanRef
}

// NewSpanTrackerSystem 创建 Span 追踪系统
func NewSpanTrackerSystem(em *ecs.EntityManager) *SpanTrackerSystem {
	return &SpanTrackerSystem{
		entityManager: em,
		progress:      make(map[ecs.EntityID]timeline.SpanProgress),
		byTimeline:    make(map[ecs.EntityID][]spanRef),
	}
}

// Rebuild 重新建立时间线 -> Span 索引
//
// Span 指向一条不存在的时间线属于编程错误，直接 panic。
// 已销毁或被禁用的 Span 的进度会被清除。
func (s *SpanTrackerSystem) Rebuild() {
	byTimeline := make(map[ecs.EntityID][]spanRef, len(s.byTimeline))
	live := make(map[ecs.EntityID]struct{})

	for _, id := range ecs.GetEntitiesWith1[*components.SpanComponent](s.entityManager) {
		sc, ok := ecs.GetComponent[*components.SpanComponent](s.entityManager, id)
		if !ok {
			continue
		}
		if !ecs.HasComponent[*components.TimelineComponent](s.entityManager, sc.Timeline) {
			panic(fmt.Sprintf("systems: span %q (#%d) refers to unknown timeline #%d", sc.Name, id, sc.Timeline))
		}
		if sc.Disabled {
			continue
		}
		live[id] = struct{}{}
		byTimeline[sc.Timeline] = append(byTimeline[sc.Timeline], spanRef{id: id, span: sc.Span})
	}

	for id := range s.progress {
		if _, ok := live[id]; !ok {
			delete(s.progress, id)
		}
	}
	s.byTimeline = byTimeline
}

// Update 按当前索引投影所有未暂停时间线的 Span
//
// 投影只依赖时间线当前的 elapsed，不使用 deltaTime；
// 需要先由 TimelineSystem 推进时间线。
func (s *SpanTrackerSystem) Update(deltaTime float64) {
	_ = deltaTime
	s.Rebuild()
	for _, id := range ecs.GetEntitiesWith1[*components.TimelineComponent](s.entityManager) {
		comp, ok := ecs.GetComponent[*components.TimelineComponent](s.entityManager, id)
		if !ok || comp.Timeline == nil || comp.Timeline.Paused() {
			continue
		}
		s.apply(projectSpans(comp.Timeline, s.byTimeline[id]))
	}
}

// Progress 返回 Span 本帧的进度；本帧不可见时 ok 为 false
func (s *SpanTrackerSystem) Progress(span ecs.EntityID) (timeline.SpanProgress, bool) {
	p, ok := s.progress[span]
	return p, ok
}

// SpansOf 时间线下已启用的 Span（按 ID 升序）
func (s *SpanTrackerSystem) SpansOf(tl ecs.EntityID) []ecs.EntityID {
	refs := s.byTimeline[tl]
	ids := make([]ecs.EntityID, len(refs))
	for i, r := range refs {
		ids[i] = r.id
	}
	return ids
}

// SetDisabled 禁用/启用 Span，下次 Rebuild 生效
func (s *SpanTrackerSystem) SetDisabled(span ecs.EntityID, disabled bool) {
	sc, ok := ecs.GetComponent[*components.SpanComponent](s.entityManager, span)
	if !ok {
		log.Warn().
			Str("component", "SpanTrackerSystem").
			Uint64("span", uint64(span)).
			Msg("禁用不存在的 Span")
		return
	}
	sc.Disabled = disabled
}

// refs 返回时间线的 Span 快照，供并行阶段只读使用
func (s *SpanTrackerSystem) refs(tl ecs.EntityID) []spanRef {
	return s.byTimeline[tl]
}

func (s *SpanTrackerSystem) apply(results []spanResult) {
	for _, r := range results {
		if r.visible {
			s.progress[r.id] = r.progress
		} else {
			delete(s.progress, r.id)
		}
	}
}

// projectSpans 用时间线同一个 (previous, now) 计算全部 Span 的进度
func projectSpans(tl *timeline.Timeline, refs []spanRef) []spanResult {
	if len(refs) == 0 {
		return nil
	}
	results := make([]spanResult, len(refs))
	for i, r := range refs {
		p, ok := tl.Project(r.span)
		results[i] = spanResult{id: r.id, progress: p, visible: ok}
	}
	return results
}
