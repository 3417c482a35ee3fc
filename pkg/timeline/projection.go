package timeline

import "fmt"

// UseTime 投影结果：本帧该 Span 应报告哪个局部时间
type UseTime int

const (
	// UseNone 本帧与该 Span 无交集，不报告进度
	UseNone UseTime = iota
	// UseCurrent 直接使用 now - min
	UseCurrent
	// UseMin 截断到 Span 起点
	UseMin
	// UseMax 截断到 Span 终点
	UseMax
)

func (u UseTime) String() string {
	switch u {
	case UseNone:
		return "none"
	case UseCurrent:
		return "current"
	case UseMin:
		return "min"
	case UseMax:
		return "max"
	default:
		return "unknown"
	}
}

// styleKey 投影表中的重复方式：本帧没有发生重复时为 styleNone
type styleKey int

const (
	styleNone styleKey = iota
	styleWrapAround
	stylePingPong
)

func (s styleKey) String() string {
	switch s {
	case styleWrapAround:
		return "wrap_around"
	case stylePingPong:
		return "ping_pong"
	default:
		return "none"
	}
}

type projectionKey struct {
	direction Direction
	previous  Quotient
	now       Quotient
	style     styleKey
}

// projectionTable 投影决策表
//
// 键为 (有效方向, previous 位置, now 位置, 本帧重复方式)。
// 未出现在表中的组合在推导规则下不可达，查到即视为内部错误。
//
// 注释中的 1 / 2 指重复前 / 重复后的那一段扫过区间：
//   - "1 max"     第一段扫过了 Span 的终点
//   - "1&2 now"   两段都落在 Span 上，直接用 now
//   - "untouched" 两段都没有碰到 Span
var projectionTable = map[projectionKey]UseTime{
	// ---------------- 无重复，正向 ----------------
	{Forward, Before, Before, styleNone}: UseNone,
	{Forward, Before, Inside, styleNone}: UseCurrent,
	{Forward, Before, After, styleNone}:  UseMax, // 一帧跨过整个 Span
	{Forward, Inside, Inside, styleNone}: UseCurrent,
	{Forward, Inside, After, styleNone}:  UseCurrent,
	{Forward, After, After, styleNone}:   UseNone,

	// ---------------- 无重复，反向 ----------------
	{Backward, After, After, styleNone}:   UseNone,
	{Backward, After, Inside, styleNone}:  UseCurrent,
	{Backward, After, Before, styleNone}:  UseMin, // 一帧跨过整个 Span
	{Backward, Inside, Inside, styleNone}: UseCurrent,
	{Backward, Inside, Before, styleNone}: UseCurrent,
	{Backward, Before, Before, styleNone}: UseNone,

	// ---------------- WrapAround，正向 ----------------
	{Forward, Before, Before, styleWrapAround}: UseMax,     // 1 max
	{Forward, Inside, Before, styleWrapAround}: UseMax,     // 1 max
	{Forward, Before, Inside, styleWrapAround}: UseCurrent, // 1 max, 2 now
	{Forward, Before, After, styleWrapAround}:  UseCurrent, // 2 now, max
	{Forward, Inside, Inside, styleWrapAround}: UseCurrent, // 1&2 now
	{Forward, Inside, After, styleWrapAround}:  UseCurrent, // 2 now, max
	{Forward, After, Inside, styleWrapAround}:  UseCurrent, // 2 now
	{Forward, After, After, styleWrapAround}:   UseCurrent, // 2 now, max
	{Forward, After, Before, styleWrapAround}:  UseNone,    // untouched

	// ---------------- WrapAround，反向 ----------------
	{Backward, After, After, styleWrapAround}:   UseMin,     // 1 min
	{Backward, Inside, After, styleWrapAround}:  UseMin,     // 1 min
	{Backward, After, Inside, styleWrapAround}:  UseCurrent, // 1 min, 2 now
	{Backward, After, Before, styleWrapAround}:  UseCurrent, // 2 now, min
	{Backward, Inside, Inside, styleWrapAround}: UseCurrent, // 1&2 now
	{Backward, Inside, Before, styleWrapAround}: UseCurrent, // 2 now, min
	{Backward, Before, Inside, styleWrapAround}: UseCurrent, // 2 now
	{Backward, Before, Before, styleWrapAround}: UseCurrent, // 2 now, min
	{Backward, Before, After, styleWrapAround}:  UseNone,    // untouched

	// ---------------- PingPong，折返后为反向（在终点折返） ----------------
	{Backward, Before, Before, stylePingPong}: UseCurrent, // 1&2 now, min
	{Backward, Before, Inside, stylePingPong}: UseCurrent, // 1 now
	{Backward, Before, After, stylePingPong}:  UseCurrent, // 1 now, max
	{Backward, Inside, Before, stylePingPong}: UseCurrent, // 2 now, min
	{Backward, Inside, Inside, stylePingPong}: UseCurrent, // 1&2 now
	{Backward, Inside, After, stylePingPong}:  UseCurrent, // 1 now, max
	{Backward, After, Before, stylePingPong}:  UseCurrent, // 2 now, min
	{Backward, After, Inside, stylePingPong}:  UseCurrent, // 2 now
	{Backward, After, After, stylePingPong}:   UseNone,    // untouched

	// ---------------- PingPong，折返后为正向（在起点折返） ----------------
	{Forward, Before, Before, stylePingPong}: UseNone,    // untouched
	{Forward, Before, Inside, stylePingPong}: UseCurrent, // 2 now
	{Forward, Before, After, stylePingPong}:  UseCurrent, // 2 now, max
	{Forward, Inside, Before, stylePingPong}: UseCurrent, // 1 now, min
	{Forward, Inside, Inside, stylePingPong}: UseCurrent, // 1&2 now
	{Forward, Inside, After, stylePingPong}:  UseCurrent, // 2 now, max
	{Forward, After, Before, stylePingPong}:  UseCurrent, // 1 now, min
	{Forward, After, Inside, stylePingPong}:  UseCurrent, // 1 now
	{Forward, After, After, stylePingPong}:   UseCurrent, // 1&2 now, max
}

// sweptTable 一帧内重复两次以上时，整条时间线至少被完整扫过一次，
// 表中 "untouched" 的四种组合改为截断到最后一次扫过的那一端
var sweptTable = map[projectionKey]UseTime{
	{Forward, After, Before, styleWrapAround}:  UseMax,
	{Backward, Before, After, styleWrapAround}: UseMin,
	{Forward, Before, Before, stylePingPong}:   UseMin,
	{Backward, After, After, stylePingPong}:    UseMax,
}

// Decide 查表得到本帧该 Span 的投影方式
//
// direction 为时间线的运动方向（见 Timeline.MotionDirection）。
func Decide(span Span, elapsed Elapsed, direction Direction) UseTime {
	key := projectionKey{
		direction: effectiveDirection(elapsed, direction),
		previous:  span.Classify(elapsed.Previous),
		now:       span.Classify(elapsed.Now),
		style:     styleOf(elapsed),
	}
	use, ok := projectionTable[key]
	if !ok {
		panic(fmt.Sprintf("timeline: unreachable projection (direction=%v previous=%v now=%v repeat=%v)",
			key.direction, key.previous, key.now, key.style))
	}
	if use == UseNone && elapsed.Crossings >= 2 {
		if swept, ok := sweptTable[key]; ok {
			return swept
		}
	}
	return use
}

// Project 计算 Span 在本帧的进度；ok 为 false 表示本帧不可见
func Project(span Span, elapsed Elapsed, direction Direction) (progress SpanProgress, ok bool) {
	use := Decide(span, elapsed, direction)
	if use == UseNone {
		return SpanProgress{}, false
	}

	dir := effectiveDirection(elapsed, direction)
	length := span.Length()
	min := span.Min().Seconds()

	switch use {
	case UseMin:
		progress.Now = 0
		progress.NowPercentage = 0
		if length <= 0 {
			progress.NowPercentage = negInf
		}
	case UseMax:
		progress.Now = length
		progress.NowPercentage = 1
		if length <= 0 {
			progress.NowPercentage = posInf
		}
	default:
		progress.Now = elapsed.Now - min
		progress.NowPercentage = percentage(progress.Now, length, dir)
	}
	progress.Previous = elapsed.Previous - min
	progress.PreviousPercentage = percentage(progress.Previous, length, dir)
	return progress, true
}

// effectiveDirection 本帧的有效方向
//
// 没有发生重复时由位置变化决定（不变时沿用时间线方向）；
// 发生重复时位置无法区分方向，只能使用 tick 之后的时间线方向。
func effectiveDirection(e Elapsed, direction Direction) Direction {
	if e.Repeated {
		return direction
	}
	switch {
	case e.Now > e.Previous:
		return Forward
	case e.Now < e.Previous:
		return Backward
	default:
		return direction
	}
}

func styleOf(e Elapsed) styleKey {
	if !e.Repeated {
		return styleNone
	}
	if e.RepeatStyle == PingPong {
		return stylePingPong
	}
	return styleWrapAround
}
