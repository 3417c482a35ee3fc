package timeline

import "fmt"

// RepeatKind 重复策略的类型
type RepeatKind int

const (
	// RepeatInfinite 无限重复，不计数
	RepeatInfinite RepeatKind = iota
	// RepeatInfiniteCounted 无限重复，但记录重复次数
	RepeatInfiniteCounted
	// RepeatTimes 重复固定次数
	RepeatTimes
)

// RepeatPolicy 重复策略
//
// 不变量：Kind == RepeatTimes 时 0 <= TimesRepeated <= Times
type RepeatPolicy struct {
	Kind          RepeatKind
	Times         int32 // 仅 RepeatTimes 使用
	TimesRepeated int32 // 净重复次数（反向播放可以减少计数）
}

// Infinite 无限重复
func Infinite() RepeatPolicy {
	return RepeatPolicy{Kind: RepeatInfinite}
}

// InfiniteCounted 无限重复并计数
func InfiniteCounted() RepeatPolicy {
	return RepeatPolicy{Kind: RepeatInfiniteCounted}
}

// Times 重复 n 次，n < 0 视为 0
func Times(n int32) RepeatPolicy {
	if n < 0 {
		n = 0
	}
	return RepeatPolicy{Kind: RepeatTimes, Times: n}
}

// AdvanceBy 尝试推进 n 次重复，返回实际推进的次数
//
// 一次 tick 可以跨越多个周期，所以一次性批量推进而不是逐次调用。
//   - Infinite / InfiniteCounted：总是返回 n（计数版会累加 n，可能为负）
//   - Times：剩余次数为 0 时返回 0；否则返回被预算截断后的 n，
//     且 TimesRepeated 始终保持在 [0, Times] 内
func (r *RepeatPolicy) AdvanceBy(n int32) int32 {
	switch r.Kind {
	case RepeatInfinite:
		return n
	case RepeatInfiniteCounted:
		r.TimesRepeated += n
		return n
	case RepeatTimes:
		remaining := r.Times - r.TimesRepeated
		if remaining <= 0 || n == 0 {
			return 0
		}
		applied := n
		if n > 0 && n > remaining {
			applied = remaining
		}
		if n < 0 && n < -r.TimesRepeated {
			applied = -r.TimesRepeated
		}
		r.TimesRepeated += applied
		return applied
	default:
		return 0
	}
}

// Exhausted 重复预算是否已用尽（仅 RepeatTimes 可能为 true）
func (r RepeatPolicy) Exhausted() bool {
	return r.Kind == RepeatTimes && r.TimesRepeated >= r.Times
}

// Remaining 剩余重复次数，无限策略返回 -1
func (r RepeatPolicy) Remaining() int32 {
	if r.Kind != RepeatTimes {
		return -1
	}
	return r.Times - r.TimesRepeated
}

// Reset 清空已重复计数
func (r *RepeatPolicy) Reset() {
	r.TimesRepeated = 0
}

func (r RepeatPolicy) String() string {
	switch r.Kind {
	case RepeatInfinite:
		return "infinite"
	case RepeatInfiniteCounted:
		return fmt.Sprintf("infinite(repeated=%d)", r.TimesRepeated)
	case RepeatTimes:
		return fmt.Sprintf("times(%d/%d)", r.TimesRepeated, r.Times)
	default:
		return "unknown"
	}
}

// RepeatStyle 重复时的位置映射方式
type RepeatStyle int

const (
	// WrapAround 到达边界后回到另一端（锯齿波）
	WrapAround RepeatStyle = iota
	// PingPong 到达边界后折返并翻转方向（三角波）
	PingPong
)

func (s RepeatStyle) String() string {
	switch s {
	case WrapAround:
		return "wrap_around"
	case PingPong:
		return "ping_pong"
	default:
		return "unknown"
	}
}

// Repeat 重复配置：策略 + 映射方式
type Repeat struct {
	Policy RepeatPolicy
	Style  RepeatStyle
}
