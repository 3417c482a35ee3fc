package app

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/decker502/spantime/pkg/components"
	"github.com/decker502/spantime/pkg/config"
	"github.com/decker502/spantime/pkg/ecs"
	"github.com/decker502/spantime/pkg/entities"
	"github.com/decker502/spantime/pkg/settings"
	"github.com/decker502/spantime/pkg/systems"
	"github.com/decker502/spantime/pkg/timeline"
	"github.com/decker502/spantime/pkg/utils"
)

// maxRecentEvents 保留的最近事件条数
const maxRecentEvents = 6

// SpanRow 一个 Span 在当前帧的展示数据
type SpanRow struct {
	Name     string
	Min, Max float32 // 秒
	Visible  bool    // 本帧是否有进度
	Progress timeline.SpanProgress
	Eased    float32 // 缓动采样后的进度 [0, 1]
}

// TimelineRow 一条时间线在当前帧的展示数据
type TimelineRow struct {
	Name      string
	Length    float32
	Now       float32
	Direction timeline.Direction
	Completed bool
	Paused    bool
	Spans     []SpanRow
}

// Showcase 展示程序的状态
//
// 不依赖窗口和输入，App 把按键翻译成这里的操作。
type Showcase struct {
	em       *ecs.EntityManager
	runner   *systems.Runner
	scene    *entities.Scene
	settings *settings.SettingsManager

	baseSpeed map[ecs.EntityID]float32 // 场景配置里的速度倍率
	paused    bool
	recent    []string
}

// NewShowcase 按场景配置创建实体并应用偏好设置
func NewShowcase(cfg *config.SceneConfig, sm *settings.SettingsManager, workers int) (*Showcase, error) {
	em := ecs.NewEntityManager()
	scene, err := entities.BuildScene(em, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}

	s := &Showcase{
		em:        em,
		runner:    systems.NewRunner(em, workers),
		scene:     scene,
		settings:  sm,
		baseSpeed: make(map[ecs.EntityID]float32, len(scene.Timelines)),
		paused:    sm.GetSettings().Paused,
	}
	for _, id := range scene.Timelines {
		if comp, ok := s.timeline(id); ok {
			s.baseSpeed[id] = comp.Timeline.SpeedScale()
		}
	}
	s.applySpeed()

	s.runner.OnEnded(func(ev systems.TimelineEnded) {
		s.recent = append(s.recent, ev.String())
		if len(s.recent) > maxRecentEvents {
			s.recent = s.recent[len(s.recent)-maxRecentEvents:]
		}
	})

	return s, nil
}

// Step 推进一帧，全局暂停时什么也不做
func (s *Showcase) Step(deltaTime float64) {
	if s.paused {
		return
	}
	s.runner.Step(deltaTime)
}

// Paused 是否全局暂停
func (s *Showcase) Paused() bool {
	return s.paused
}

// TogglePause 切换全局暂停
func (s *Showcase) TogglePause() {
	s.paused = !s.paused
	s.settings.SetPaused(s.paused)
	s.save()
}

// SpeedScale 全局速度倍率
func (s *Showcase) SpeedScale() float32 {
	return s.settings.GetSettings().SpeedScale
}

// AdjustSpeed 调整全局速度倍率，跨过 0 时直接跳到另一侧
func (s *Showcase) AdjustSpeed(step float32) {
	current := s.SpeedScale()
	next := current + step
	if next == 0 || (current > 0) != (next > 0) {
		next = -current
	}
	s.settings.SetSpeedScale(next)
	s.applySpeed()
	s.save()
}

// Reverse 反转所有时间线的方向
func (s *Showcase) Reverse() {
	for _, id := range s.scene.Timelines {
		if comp, ok := s.timeline(id); ok {
			comp.Timeline.SetDirection(comp.Timeline.Direction().Reverse())
			comp.WasCompleted = comp.Timeline.IsCompleted()
		}
	}
	log.Debug().Str("component", "Showcase").Msg("timelines reversed")
}

// Restart 所有时间线回到各自方向的起点
func (s *Showcase) Restart() {
	for _, id := range s.scene.Timelines {
		if comp, ok := s.timeline(id); ok {
			comp.Timeline.Restart()
			comp.WasCompleted = comp.Timeline.IsCompleted()
		}
	}
	s.recent = s.recent[:0]
	log.Debug().Str("component", "Showcase").Msg("timelines restarted")
}

// ToggleTimeline 切换第 index 条时间线自身的暂停状态，index 越界时返回 false
func (s *Showcase) ToggleTimeline(index int) bool {
	if index < 0 || index >= len(s.scene.Timelines) {
		return false
	}
	comp, ok := s.timeline(s.scene.Timelines[index])
	if !ok {
		return false
	}
	comp.Timeline.SetPaused(!comp.Timeline.Paused())
	log.Debug().
		Str("component", "Showcase").
		Str("timeline", comp.Name).
		Bool("paused", comp.Timeline.Paused()).
		Msg("timeline toggled")
	return true
}

// RecentEvents 最近的时间线事件，旧的在前
func (s *Showcase) RecentEvents() []string {
	return s.recent
}

// Rows 当前帧每条时间线及其 Span 的展示数据
func (s *Showcase) Rows() []TimelineRow {
	tracker := s.runner.Tracker()
	rows := make([]TimelineRow, 0, len(s.scene.Timelines))

	for _, id := range s.scene.Timelines {
		comp, ok := s.timeline(id)
		if !ok {
			continue
		}
		tl := comp.Timeline
		row := TimelineRow{
			Name:      comp.Name,
			Length:    tl.LengthSeconds(),
			Now:       tl.Elapsed().Now,
			Direction: tl.MotionDirection(),
			Completed: tl.IsCompleted(),
			Paused:    tl.Paused(),
		}

		for _, spanID := range s.scene.Spans[id] {
			sc, ok := ecs.GetComponent[*components.SpanComponent](s.em, spanID)
			if !ok {
				continue
			}
			sr := SpanRow{
				Name: sc.Name,
				Min:  sc.Span.Min().Seconds(),
				Max:  sc.Span.Max().Seconds(),
			}
			if p, ok := tracker.Progress(spanID); ok {
				ease, _ := utils.EaseByName(sc.Ease)
				sr.Visible = true
				sr.Progress = p
				sr.Eased = utils.Sample(p.NowPercentage, ease)
			}
			row.Spans = append(row.Spans, sr)
		}
		rows = append(rows, row)
	}
	return rows
}

// applySpeed 全局倍率乘以每条时间线的配置倍率
func (s *Showcase) applySpeed() {
	global := s.SpeedScale()
	for id, base := range s.baseSpeed {
		if comp, ok := s.timeline(id); ok {
			comp.Timeline.SetSpeedScale(base * global)
		}
	}
}

func (s *Showcase) save() {
	if err := s.settings.Save(); err != nil {
		log.Warn().Str("component", "Showcase").Err(err).Msg("failed to save settings")
	}
}

func (s *Showcase) timeline(id ecs.EntityID) (*components.TimelineComponent, bool) {
	return ecs.GetComponent[*components.TimelineComponent](s.em, id)
}
