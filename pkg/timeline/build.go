package timeline

import "time"

// PlacedSpan 由 Builder 放置好的命名 Span
type PlacedSpan struct {
	Name string
	Span Span
}

// Step 编排步骤，读写 Builder 的游标
type Step func(b *Builder)

// Builder 用游标在时间线上顺序/并行地放置 Span
//
// 用法：
//
//	b := timeline.NewBuilder()
//	b.Apply(
//		timeline.Add("fade", time.Second),
//		timeline.Parallel(
//			timeline.Add("slide", 2*time.Second),
//			timeline.Add("scale", time.Second),
//		),
//	)
//	tl, spans, err := b.Build()
type Builder struct {
	cursor time.Duration
	end    time.Duration
	spans  []PlacedSpan
}

// NewBuilder 创建游标位于 0 的 Builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Cursor 当前游标位置
func (b *Builder) Cursor() time.Duration {
	return b.cursor
}

// Length 目前放置的 Span 中最远的结束位置
func (b *Builder) Length() time.Duration {
	return b.end
}

// Spans 已放置的 Span（按放置顺序）
func (b *Builder) Spans() []PlacedSpan {
	out := make([]PlacedSpan, len(b.spans))
	copy(out, b.spans)
	return out
}

// Apply 依次执行步骤
func (b *Builder) Apply(steps ...Step) *Builder {
	for _, step := range steps {
		step(b)
	}
	return b
}

// Build 按最远结束位置创建时间线
func (b *Builder) Build() (*Timeline, []PlacedSpan, error) {
	tl, err := New(b.end)
	if err != nil {
		return nil, nil, err
	}
	return tl, b.Spans(), nil
}

// Add 在游标处放置长度为 length 的 Span [cursor, cursor+length)，然后把游标移到结束位置
//
// length <= 0 时放置一个跳变点 [cursor, cursor]。
func Add(name string, length time.Duration) Step {
	return func(b *Builder) {
		start := b.cursor
		var span Span
		if length <= 0 {
			span = SpanAt(start)
		} else {
			// start < start+length，不会出错
			span, _ = SpanRange(start, start+length)
			b.cursor = start + length
		}
		b.spans = append(b.spans, PlacedSpan{Name: name, Span: span})
		if b.cursor > b.end {
			b.end = b.cursor
		}
		if start > b.end {
			b.end = start
		}
	}
}

// MoveForward 游标前移 d
func MoveForward(d time.Duration) Step {
	return func(b *Builder) {
		b.cursor += d
	}
}

// MoveBackward 游标后移 d，最小为 0
func MoveBackward(d time.Duration) Step {
	return func(b *Builder) {
		b.cursor -= d
		if b.cursor < 0 {
			b.cursor = 0
		}
	}
}

// GoTo 游标跳到 at
func GoTo(at time.Duration) Step {
	return func(b *Builder) {
		if at < 0 {
			at = 0
		}
		b.cursor = at
	}
}

// Sequence 依次执行，游标在步骤之间传递
func Sequence(steps ...Step) Step {
	return func(b *Builder) {
		b.Apply(steps...)
	}
}

// Parallel 每个步骤都从同一个起点开始，结束后游标停在最远的位置
func Parallel(steps ...Step) Step {
	return func(b *Builder) {
		start := b.cursor
		furthest := start
		for _, step := range steps {
			b.cursor = start
			step(b)
			if b.cursor > furthest {
				furthest = b.cursor
			}
		}
		b.cursor = furthest
	}
}
