package timeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewSpan_Validation 测试 Span 构造校验
func TestNewSpan_Validation(t *testing.T) {
	tests := []struct {
		name    string
		min     Bound
		max     Bound
		wantErr error
	}{
		{"左闭右开", InclusiveBound(time.Second), ExclusiveBound(2 * time.Second), nil},
		{"单点闭区间", InclusiveBound(time.Second), InclusiveBound(time.Second), nil},
		{"单点半开区间", InclusiveBound(time.Second), ExclusiveBound(time.Second), nil},
		{"单点开区间为空", ExclusiveBound(time.Second), ExclusiveBound(time.Second), ErrSpanEmpty},
		{"反转", InclusiveBound(3 * time.Second), InclusiveBound(time.Second), ErrSpanInverted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span, err := NewSpan(tt.min, tt.max)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.min, span.Min())
				assert.Equal(t, tt.max, span.Max())
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			var spanErr *SpanError
			require.True(t, errors.As(err, &spanErr))
			assert.Equal(t, tt.min, spanErr.Min)
		})
	}
}

// TestSpan_Classify 测试时间点分类
func TestSpan_Classify(t *testing.T) {
	closedOpen, _ := SpanRange(2*time.Second, 4*time.Second)
	openClosed, _ := NewSpan(ExclusiveBound(2*time.Second), InclusiveBound(4*time.Second))
	point := SpanAt(3 * time.Second)

	tests := []struct {
		name string
		span Span
		at   float32
		want Quotient
	}{
		{"[2,4) 之前", closedOpen, 1.9, Before},
		{"[2,4) 起点包含", closedOpen, 2, Inside},
		{"[2,4) 中间", closedOpen, 3, Inside},
		{"[2,4) 终点不包含", closedOpen, 4, After},
		{"(2,4] 起点不包含", openClosed, 2, Before},
		{"(2,4] 终点包含", openClosed, 4, Inside},
		{"(2,4] 之后", openClosed, 4.1, After},
		{"[3,3] 之前", point, 2.9, Before},
		{"[3,3] 正好", point, 3, Inside},
		{"[3,3] 之后", point, 3.1, After},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.span.Classify(tt.at))
		})
	}
}

// TestSpan_Conversions 测试区间便捷构造
func TestSpan_Conversions(t *testing.T) {
	s, err := SpanTo(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "[0s, 1s)", s.String())

	s, err = SpanToInclusive(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "[0s, 1s]", s.String())

	s, err = SpanRangeInclusive(time.Second, 3*time.Second)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, s.Length(), 1e-6)

	_, err = SpanRange(3*time.Second, time.Second)
	assert.True(t, errors.Is(err, ErrSpanInverted))

	assert.Equal(t, float32(0), SpanAt(time.Second).Length())
}
