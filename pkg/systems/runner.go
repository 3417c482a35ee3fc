package systems

import (
	"fmt"
	"math"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/decker502/spantime/pkg/components"
	"github.com/decker502/spantime/pkg/ecs"
)

// EndedListener 时间线结束事件回调
type EndedListener func(TimelineEnded)

// Runner 每帧驱动：推进所有时间线并投影它们的 Span
//
// 一帧分三个阶段：
//  1. 单线程：清理待删除实体，重建 Span 索引，收集任务
//  2. 并行：每条时间线先 Tick 再投影自己的 Span，时间线之间互不读写
//  3. 单线程：合并投影结果，按时间线 ID 顺序派发事件
type Runner struct {
	entityManager *ecs.EntityManager
	tracker       *SpanTrackerSystem
	workers       int
	listeners     []EndedListener
}

type runnerJob struct {
	id    ecs.EntityID
	comp  *components.TimelineComponent
	spans []spanRef
}

type runnerResult struct {
	spans []spanResult
	event TimelineEnded
	ended bool
}

// NewRunner 创建 Runner，workers <= 0 时使用 GOMAXPROCS
func NewRunner(em *ecs.EntityManager, workers int) *Runner {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{
		entityManager: em,
		tracker:       NewSpanTrackerSystem(em),
		workers:       workers,
	}
}

// Tracker Span 进度查询入口
func (r *Runner) Tracker() *SpanTrackerSystem {
	return r.tracker
}

// Workers 并行度
func (r *Runner) Workers() int {
	return r.workers
}

// OnEnded 注册时间线结束事件回调，回调在调用 Step 的 goroutine 上执行
func (r *Runner) OnEnded(fn EndedListener) {
	r.listeners = append(r.listeners, fn)
}

// Step 推进一帧
//
// deltaTime 为 NaN 时 panic；工作 goroutine 中的 panic 会在调用方 goroutine 上重新抛出。
func (r *Runner) Step(deltaTime float64) []TimelineEnded {
	if math.IsNaN(deltaTime) {
		panic("systems: NaN delta passed to Runner.Step")
	}

	removed := r.entityManager.RemoveMarkedEntities()
	if len(removed) > 0 {
		log.Debug().
			Str("component", "Runner").
			Int("count", len(removed)).
			Msg("清理已销毁实体")
	}
	r.tracker.Rebuild()

	jobs := r.collect()
	results := make([]runnerResult, len(jobs))
	delta := float32(deltaTime)

	chunk := (len(jobs) + r.workers - 1) / r.workers
	if chunk < 1 {
		chunk = 1
	}

	var g errgroup.Group
	g.SetLimit(r.workers)
	for start := 0; start < len(jobs); start += chunk {
		end := start + chunk
		if end > len(jobs) {
			end = len(jobs)
		}
		lo, hi := start, end
		g.Go(func() (err error) {
			current := ecs.InvalidEntity
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("timeline #%d: %v", current, rec)
				}
			}()
			for i := lo; i < hi; i++ {
				current = jobs[i].id
				results[i] = runJob(jobs[i], delta)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(err)
	}

	var events []TimelineEnded
	for _, res := range results {
		r.tracker.apply(res.spans)
		if res.ended {
			events = append(events, res.event)
		}
	}

	for _, ev := range events {
		log.Debug().
			Str("component", "Runner").
			Str("timeline", ev.Name).
			Bool("finished", ev.IsFinished()).
			Str("direction", ev.Direction.String()).
			Msg("时间线到达边界")
		for _, fn := range r.listeners {
			fn(ev)
		}
	}
	return events
}

func (r *Runner) collect() []runnerJob {
	ids := ecs.GetEntitiesWith1[*components.TimelineComponent](r.entityManager)
	jobs := make([]runnerJob, 0, len(ids))
	for _, id := range ids {
		comp, ok := ecs.GetComponent[*components.TimelineComponent](r.entityManager, id)
		if !ok || comp.Timeline == nil {
			continue
		}
		jobs = append(jobs, runnerJob{id: id, comp: comp, spans: r.tracker.refs(id)})
	}
	return jobs
}

// runJob 同一条时间线：先 Tick，再用同一个 (previous, now) 投影全部 Span
func runJob(job runnerJob, delta float32) runnerResult {
	var res runnerResult
	res.event, res.ended = tickTimeline(job.id, job.comp, delta)
	if job.comp.Timeline.Paused() {
		return res
	}
	res.spans = projectSpans(job.comp.Timeline, job.spans)
	return res
}
