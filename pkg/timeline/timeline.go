// Package timeline 实现动画时间线的核心算法
//
// 包含三个部分：
//   - Timeline：全局时钟，负责方向、重复、锯齿/三角波映射
//   - Span：时间线上的一段局部时间窗口
//   - Project：把时间线的 (previous, now) 投影到每个 Span 的局部进度
//
// 本包只做纯计算，不做日志、不持有全局状态，也不做并发控制；
// 调度与并行由 pkg/systems 负责。
package timeline

import (
	"errors"
	"math"
	"time"
)

// ErrNegativeLength 时间线长度为负
var ErrNegativeLength = errors.New("timeline length must not be negative")

// ErrNonFiniteSpeed 速度倍率为 NaN 或 ±Inf
var ErrNonFiniteSpeed = errors.New("timeline speed scale must be finite")

// Elapsed 时间线当前与上一帧的经过时间（秒）
type Elapsed struct {
	Now      float32
	Previous float32

	// NowPeriod = 未映射的 raw / length，发生重复时不做截断，
	// 可以超出 [0, 1]，调用方据此比较 floor 判断越界次数
	NowPeriod      float32
	PreviousPeriod float32

	// Repeated 为 true 表示本次 tick 发生了重复，RepeatStyle 有效
	Repeated    bool
	RepeatStyle RepeatStyle
	// Crossings 本次 tick 实际消耗的重复次数（绝对值）
	Crossings int32
}

// Timeline 动画时间线（主时钟）
type Timeline struct {
	length     time.Duration
	elapsed    Elapsed
	direction  Direction
	repeat     *Repeat
	paused     bool
	speedScale float32
}

// New 创建时间线，默认正向、不重复、未暂停、速度 1
func New(length time.Duration) (*Timeline, error) {
	if length < 0 {
		return nil, ErrNegativeLength
	}
	return &Timeline{
		length:     length,
		direction:  Forward,
		speedScale: 1,
	}, nil
}

// Length 时间线长度
func (t *Timeline) Length() time.Duration {
	return t.length
}

// LengthSeconds 时间线长度（秒，float32）
func (t *Timeline) LengthSeconds() float32 {
	return float32(t.length.Seconds())
}

// Elapsed 返回当前经过时间快照
func (t *Timeline) Elapsed() Elapsed {
	return t.elapsed
}

// Direction 当前播放方向
func (t *Timeline) Direction() Direction {
	return t.direction
}

// SetDirection 设置播放方向
func (t *Timeline) SetDirection(d Direction) {
	t.direction = d
}

// Repeat 返回重复配置；未配置时 ok 为 false
func (t *Timeline) Repeat() (r Repeat, ok bool) {
	if t.repeat == nil {
		return Repeat{}, false
	}
	return *t.repeat, true
}

// SetRepeat 配置重复策略与映射方式
func (t *Timeline) SetRepeat(policy RepeatPolicy, style RepeatStyle) {
	t.repeat = &Repeat{Policy: policy, Style: style}
}

// ClearRepeat 取消重复
func (t *Timeline) ClearRepeat() {
	t.repeat = nil
}

// Paused 是否暂停
func (t *Timeline) Paused() bool {
	return t.paused
}

// SetPaused 设置暂停，暂停时 Tick 不做任何事
func (t *Timeline) SetPaused(paused bool) {
	t.paused = paused
}

// SpeedScale 播放速度倍率
func (t *Timeline) SpeedScale() float32 {
	return t.speedScale
}

// SetSpeedScale 设置播放速度倍率（每秒推进 scale 秒）
//
// scale 为 NaN 或 ±Inf 属于编程错误，直接 panic。
func (t *Timeline) SetSpeedScale(scale float32) {
	if !isFinite32(scale) {
		panic("timeline: non-finite speed scale")
	}
	t.speedScale = scale
}

// Tick 推进时间线 delta 秒
//
// delta（乘以速度倍率之后）为 NaN 属于调用方的编程错误，直接 panic。
// 暂停时不做任何事；已完成时位置不再变化，只令 previous 追上 now，
// 这样已结束的时间线不会让 Span 每帧重复报告最后一次扫过。
func (t *Timeline) Tick(delta float32) {
	if delta != delta {
		panic("timeline: NaN delta passed to Tick")
	}
	if t.paused {
		return
	}
	if t.IsCompleted() {
		t.record(t.elapsed.Now, t.elapsed.NowPeriod)
		return
	}

	length := t.LengthSeconds()
	delta *= t.speedScale
	if delta != delta {
		panic("timeline: NaN scaled delta in Tick")
	}

	raw := t.elapsed.Now + delta
	if t.direction == Backward {
		raw = t.elapsed.Now - delta
	}
	period := raw / length
	count := floorCount(period)

	if t.repeat == nil || count == 0 {
		t.pin(raw, length)
		return
	}

	// 换算成"正向等价"的越界次数
	n := count
	if t.direction == Backward {
		n = -count
	}
	advanced := t.repeat.Policy.AdvanceBy(n)
	if advanced == 0 {
		// 预算耗尽：停在边界，不做映射
		t.pin(raw, length)
		return
	}
	if abs32(advanced) < abs32(n) {
		t.pinPartial(raw, length, advanced)
		return
	}

	var now float32
	switch t.repeat.Style {
	case PingPong:
		now = Reflect(raw, length)
		if t.direction == Forward {
			t.direction = ReflectedDirection(count, t.direction)
		} else {
			t.direction = ReflectedDirectionBackward(count, t.direction)
		}
	default:
		now = Wrap(raw, length)
	}

	t.record(now, period)
	t.elapsed.Repeated = true
	t.elapsed.RepeatStyle = t.repeat.Style
	t.elapsed.Crossings = abs32(count)
}

// pin 把 raw 截断到 [0, length] 并记录，period 同样使用截断后的值
func (t *Timeline) pin(raw, length float32) {
	now := clamp32(raw, 0, length)
	t.record(now, now/length)
}

// pinPartial 预算只够部分越界：消耗完剩余次数后停在下一条边界上
func (t *Timeline) pinPartial(raw, length float32, advanced int32) {
	style := t.repeat.Style
	var now float32
	switch style {
	case PingPong:
		t.direction = ReflectedDirection(advanced, t.direction)
		if t.direction == Forward {
			now = length
		} else {
			now = 0
		}
	default:
		now = clamp32(raw, 0, length)
	}
	t.record(now, now/length)
	t.elapsed.Repeated = true
	t.elapsed.RepeatStyle = style
	t.elapsed.Crossings = abs32(advanced)
}

func (t *Timeline) record(now, period float32) {
	t.elapsed = Elapsed{
		Now:            now,
		Previous:       t.elapsed.Now,
		NowPeriod:      period,
		PreviousPeriod: t.elapsed.NowPeriod,
	}
}

// IsCompleted 时间线是否真正结束
//
// 条件：重复预算已用尽（未配置重复时视为已用尽），
// 且 period 与上一帧相同并停在当前方向对应的终点边界上。
// 映射帧记录的是未截断的 period，可能恰好为 1 而位置在 0，所以同时检查位置。
// 长度为 0 的时间线始终视为已完成。
func (t *Timeline) IsCompleted() bool {
	if t.length == 0 {
		return true
	}
	if t.repeat != nil && !t.repeat.Policy.Exhausted() {
		return false
	}
	e := t.elapsed
	if e.NowPeriod != e.PreviousPeriod {
		return false
	}
	if t.direction == Forward {
		return e.NowPeriod >= 1 && e.Now >= t.LengthSeconds()
	}
	return e.NowPeriod <= 0 && e.Now <= 0
}

// SetPosition 直接跳转到 secs 秒（截断到 [0, length]）
//
// 只更新 now / NowPeriod，previous 保持不变，
// 所以跳转后的下一次投影仍然能看到一次从旧位置到新位置的变化。
// 需要"干净"的跳转时再调用 Collapse。
func (t *Timeline) SetPosition(secs float32) {
	length := t.LengthSeconds()
	now := clamp32(secs, 0, length)
	t.elapsed.Now = now
	if length > 0 {
		t.elapsed.NowPeriod = now / length
	} else {
		t.elapsed.NowPeriod = 0
	}
	t.elapsed.Repeated = false
	t.elapsed.Crossings = 0
}

// Collapse 令 previous 等于 now，消除跳转产生的增量
func (t *Timeline) Collapse() {
	t.elapsed.Previous = t.elapsed.Now
	t.elapsed.PreviousPeriod = t.elapsed.NowPeriod
	t.elapsed.Repeated = false
	t.elapsed.Crossings = 0
}

// Restart 回到当前方向的起点并清空重复计数
func (t *Timeline) Restart() {
	if t.direction == Forward {
		t.SetPosition(0)
	} else {
		t.SetPosition(t.LengthSeconds())
	}
	t.Collapse()
	if t.repeat != nil {
		t.repeat.Policy.Reset()
	}
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// floorCount 取 floor(period) 并饱和到 int32 范围
//
// 下界取 MinInt32+1，保证 abs32 的结果非负。
func floorCount(period float32) int32 {
	f := math.Floor(float64(period))
	switch {
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32+1:
		return math.MinInt32 + 1
	}
	return int32(f)
}

func isFinite32(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// MotionDirection 实际运动方向：速度倍率为负时与 Direction 相反
func (t *Timeline) MotionDirection() Direction {
	if t.speedScale < 0 {
		return t.direction.Reverse()
	}
	return t.direction
}

// Project 用本时间线当前的 (previous, now) 计算 span 的进度
func (t *Timeline) Project(span Span) (SpanProgress, bool) {
	return Project(span, t.elapsed, t.MotionDirection())
}
