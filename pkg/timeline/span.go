package timeline

import (
	"errors"
	"fmt"
	"time"
)

// BoundKind 边界是否包含端点
type BoundKind int

const (
	// Inclusive 包含端点
	Inclusive BoundKind = iota
	// Exclusive 不包含端点
	Exclusive
)

// Bound 时间边界
type Bound struct {
	Kind BoundKind
	At   time.Duration
}

// InclusiveBound 包含 d 的边界
func InclusiveBound(d time.Duration) Bound {
	return Bound{Kind: Inclusive, At: d}
}

// ExclusiveBound 不包含 d 的边界
func ExclusiveBound(d time.Duration) Bound {
	return Bound{Kind: Exclusive, At: d}
}

// Seconds 边界时间（秒，float32）
func (b Bound) Seconds() float32 {
	return float32(b.At.Seconds())
}

func (b Bound) String() string {
	if b.Kind == Exclusive {
		return fmt.Sprintf("exclusive(%v)", b.At)
	}
	return fmt.Sprintf("inclusive(%v)", b.At)
}

var (
	// ErrSpanEmpty 两端都不包含且位于同一点，区间内没有任何时间
	ErrSpanEmpty = errors.New("span does not contain any time")
	// ErrSpanInverted min 大于 max
	ErrSpanInverted = errors.New("span min is greater than max")
)

// SpanError 创建 Span 失败
type SpanError struct {
	Min, Max Bound
	Err      error
}

func (e *SpanError) Error() string {
	return fmt.Sprintf("invalid span (min %v, max %v): %v", e.Min, e.Max, e.Err)
}

func (e *SpanError) Unwrap() error {
	return e.Err
}

// Quotient 时间点相对 Span 的位置
type Quotient int

const (
	// Before 在 Span 之前
	Before Quotient = iota
	// Inside 在 Span 之内
	Inside
	// After 在 Span 之后
	After
)

func (q Quotient) String() string {
	switch q {
	case Before:
		return "before"
	case Inside:
		return "inside"
	case After:
		return "after"
	default:
		return "unknown"
	}
}

// Span 时间线上的一段局部时间窗口，创建后不可变
type Span struct {
	min Bound
	max Bound
}

// NewSpan 创建 Span 并校验
//
// 拒绝 min > max，以及两端都为 Exclusive 且时间相同的空区间。
func NewSpan(min, max Bound) (Span, error) {
	if min.Kind == Exclusive && max.Kind == Exclusive && min.At == max.At {
		return Span{}, &SpanError{Min: min, Max: max, Err: ErrSpanEmpty}
	}
	if min.At > max.At {
		return Span{}, &SpanError{Min: min, Max: max, Err: ErrSpanInverted}
	}
	return Span{min: min, max: max}, nil
}

// SpanRange [start, end)
func SpanRange(start, end time.Duration) (Span, error) {
	return NewSpan(InclusiveBound(start), ExclusiveBound(end))
}

// SpanRangeInclusive [start, end]
func SpanRangeInclusive(start, end time.Duration) (Span, error) {
	return NewSpan(InclusiveBound(start), InclusiveBound(end))
}

// SpanTo [0, end)
func SpanTo(end time.Duration) (Span, error) {
	return SpanRange(0, end)
}

// SpanToInclusive [0, end]
func SpanToInclusive(end time.Duration) (Span, error) {
	return SpanRangeInclusive(0, end)
}

// SpanAt [at, at]，长度为 0 的"跳变"区间
func SpanAt(at time.Duration) Span {
	return Span{min: InclusiveBound(at), max: InclusiveBound(at)}
}

// Min 起始边界
func (s Span) Min() Bound {
	return s.min
}

// Max 结束边界
func (s Span) Max() Bound {
	return s.max
}

// Length Span 长度（秒）
func (s Span) Length() float32 {
	return s.max.Seconds() - s.min.Seconds()
}

// Classify 判断时间点 t（秒）相对 Span 的位置
func (s Span) Classify(t float32) Quotient {
	var afterMin, beforeMax bool
	if s.min.Kind == Exclusive {
		afterMin = t > s.min.Seconds()
	} else {
		afterMin = t >= s.min.Seconds()
	}
	if s.max.Kind == Exclusive {
		beforeMax = t < s.max.Seconds()
	} else {
		beforeMax = t <= s.max.Seconds()
	}

	switch {
	case afterMin && beforeMax:
		return Inside
	case afterMin:
		return After
	case beforeMax:
		return Before
	default:
		panic(fmt.Sprintf("timeline: time %v is neither after min nor before max of span [%v, %v]", t, s.min, s.max))
	}
}

func (s Span) String() string {
	left, right := "[", "]"
	if s.min.Kind == Exclusive {
		left = "("
	}
	if s.max.Kind == Exclusive {
		right = ")"
	}
	return fmt.Sprintf("%s%v, %v%s", left, s.min.At, s.max.At, right)
}
