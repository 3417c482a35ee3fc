package timeline

import "time"

// Options 创建时间线时的可选配置
type Options struct {
	Direction Direction
	// Repeat 为 nil 表示不重复
	Repeat *Repeat
	Paused bool
	// SpeedScale 为 0 时使用 1
	SpeedScale float32
	// Start 初始位置（秒），为 nil 时使用当前方向的起点（正向 0，反向 length）
	Start *float32
}

// NewWithOptions 按 Options 创建时间线，初始位置不产生增量（previous == now）
func NewWithOptions(length time.Duration, opts Options) (*Timeline, error) {
	if !isFinite32(opts.SpeedScale) {
		return nil, ErrNonFiniteSpeed
	}
	t, err := New(length)
	if err != nil {
		return nil, err
	}
	t.direction = opts.Direction
	if opts.Repeat != nil {
		r := *opts.Repeat
		t.repeat = &r
	}
	t.paused = opts.Paused
	if opts.SpeedScale != 0 {
		t.speedScale = opts.SpeedScale
	}

	switch {
	case opts.Start != nil:
		t.SetPosition(*opts.Start)
	case t.direction == Backward:
		t.SetPosition(t.LengthSeconds())
	}
	t.Collapse()
	return t, nil
}
