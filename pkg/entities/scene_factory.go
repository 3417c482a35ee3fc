package entities

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/decker502/spantime/pkg/config"
	"github.com/decker502/spantime/pkg/ecs"
	"github.com/decker502/spantime/pkg/timeline"
)

// Scene 由场景配置创建出的实体
type Scene struct {
	Name string
	// Timelines 按配置顺序排列的时间线实体
	Timelines []ecs.EntityID
	// Spans 时间线实体 -> 其下按配置顺序排列的 Span 实体（先 spans，再 sequence）
	Spans map[ecs.EntityID][]ecs.EntityID
}

// BuildScene 按场景配置创建时间线与 Span 实体
//
// 出错时已创建的实体会被标记删除。
func BuildScene(em *ecs.EntityManager, cfg *config.SceneConfig) (*Scene, error) {
	scene := &Scene{
		Name:  cfg.Name,
		Spans: make(map[ecs.EntityID][]ecs.EntityID, len(cfg.Timelines)),
	}

	fail := func(err error) (*Scene, error) {
		scene.Destroy(em)
		return nil, err
	}

	for i, tc := range cfg.Timelines {
		length, err := tc.LengthDuration()
		if err != nil {
			return fail(fmt.Errorf("timeline %d (%s): %w", i, tc.Name, err))
		}
		opts, err := tc.Options()
		if err != nil {
			return fail(fmt.Errorf("timeline %d (%s): %w", i, tc.Name, err))
		}
		tl, err := timeline.NewWithOptions(length, opts)
		if err != nil {
			return fail(fmt.Errorf("timeline %d (%s): %w", i, tc.Name, err))
		}

		tlID := NewTimelineEntity(em, tc.Name, tl)
		scene.Timelines = append(scene.Timelines, tlID)

		spans, err := tc.ResolveSpans()
		if err != nil {
			return fail(fmt.Errorf("timeline %d (%s): %w", i, tc.Name, err))
		}
		for _, rs := range spans {
			spanID, err := NewSpanEntity(em, tlID, rs.Name, rs.Span, rs.Ease)
			if err != nil {
				return fail(fmt.Errorf("timeline %d (%s): %w", i, tc.Name, err))
			}
			scene.Spans[tlID] = append(scene.Spans[tlID], spanID)
		}
	}

	log.Info().
		Str("component", "Entities").
		Str("scene", cfg.Name).
		Int("timelines", len(scene.Timelines)).
		Msg("场景创建完成")
	return scene, nil
}

// Destroy 标记场景中的全部实体待删除
func (s *Scene) Destroy(em *ecs.EntityManager) {
	for _, id := range s.Timelines {
		DestroyTimeline(em, id)
	}
}
