package entities

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/decker502/spantime/pkg/components"
	"github.com/decker502/spantime/pkg/ecs"
	"github.com/decker502/spantime/pkg/timeline"
	"github.com/decker502/spantime/pkg/utils"
)

// ErrUnknownTimeline Span 的所属时间线不存在
var ErrUnknownTimeline = errors.New("unknown timeline entity")

// NewTimelineEntity 创建时间线实体
//
// 参数:
//   - em: 实体管理器
//   - name: 时间线名称
//   - tl: 时间线（由 timeline.New / timeline.NewWithOptions 创建）
//
// 返回:
//   - ecs.EntityID: 时间线实体ID
func NewTimelineEntity(em *ecs.EntityManager, name string, tl *timeline.Timeline) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.TimelineComponent{
		Name:         name,
		Timeline:     tl,
		WasCompleted: tl.IsCompleted(),
	})
	log.Debug().
		Str("component", "Entities").
		Str("timeline", name).
		Uint64("id", uint64(id)).
		Dur("length", tl.Length()).
		Msg("创建时间线实体")
	return id
}

// NewSpanEntity 在时间线 owner 上创建 Span 实体
//
// ease 为缓动曲线名称，为空表示线性；名称未知时返回错误。
func NewSpanEntity(em *ecs.EntityManager, owner ecs.EntityID, name string, span timeline.Span, ease string) (ecs.EntityID, error) {
	if !ecs.HasComponent[*components.TimelineComponent](em, owner) || em.IsMarkedForDestroy(owner) {
		return ecs.InvalidEntity, fmt.Errorf("span %q: %w (#%d)", name, ErrUnknownTimeline, owner)
	}
	if _, err := utils.EaseByName(ease); err != nil {
		return ecs.InvalidEntity, fmt.Errorf("span %q: %w", name, err)
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.SpanComponent{
		Name:     name,
		Timeline: owner,
		Span:     span,
		Ease:     ease,
	})
	return id, nil
}

// DestroyTimeline 标记时间线及其全部 Span 待删除
func DestroyTimeline(em *ecs.EntityManager, id ecs.EntityID) {
	for _, spanID := range ecs.GetEntitiesWith1[*components.SpanComponent](em) {
		sc, ok := ecs.GetComponent[*components.SpanComponent](em, spanID)
		if ok && sc.Timeline == id {
			em.DestroyEntity(spanID)
		}
	}
	em.DestroyEntity(id)
}

// FindTimeline 按名称查找时间线实体
func FindTimeline(em *ecs.EntityManager, name string) (ecs.EntityID, bool) {
	for _, id := range ecs.GetEntitiesWith1[*components.TimelineComponent](em) {
		comp, ok := ecs.GetComponent[*components.TimelineComponent](em, id)
		if ok && comp.Name == name {
			return id, true
		}
	}
	return ecs.InvalidEntity, false
}

// FindSpan 按名称查找某条时间线下的 Span 实体
func FindSpan(em *ecs.EntityManager, owner ecs.EntityID, name string) (ecs.EntityID, bool) {
	for _, id := range ecs.GetEntitiesWith1[*components.SpanComponent](em) {
		sc, ok := ecs.GetComponent[*components.SpanComponent](em, id)
		if ok && sc.Timeline == owner && sc.Name == name {
			return id, true
		}
	}
	return ecs.InvalidEntity, false
}
