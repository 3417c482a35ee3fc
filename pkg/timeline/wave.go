package timeline

import "math"

// Direction 时间线播放方向
type Direction int

const (
	// Forward 正向播放（elapsed 递增）
	Forward Direction = iota
	// Backward 反向播放（elapsed 递减）
	Backward
)

// Reverse 返回相反方向
func (d Direction) Reverse() Direction {
	if d == Forward {
		return Backward
	}
	return Forward
}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}

// Wave Functions (波形函数)
//
// 时间线重复时使用的两种映射：
//   - Wrap:    锯齿波，x 超出周期后从头开始
//   - Reflect: 三角波，x 超出周期后折返
//
// 输入为任意有限值，period 必须大于 0。

// Wrap 锯齿波
// 公式：x mod period（欧几里得取模，结果 ∈ [0, period)）
func Wrap(x, period float32) float32 {
	r := float32(math.Mod(float64(x), float64(period)))
	if r < 0 {
		r += period
	}
	// 极小的负余数加上 period 后可能在 float32 精度下等于 period
	if r >= period {
		return 0
	}
	return r
}

// Reflect 三角波
// 公式：|((x + period) mod 2·period) − period|，结果 ∈ [0, period]
func Reflect(x, period float32) float32 {
	v := Wrap(x+period, 2*period) - period
	if v < 0 {
		return -v
	}
	return v
}

// ReflectedDirection 计算正向驱动下经过 count 次折返后的方向
// 偶数次保持 base，奇数次翻转
func ReflectedDirection(count int32, base Direction) Direction {
	if count%2 != 0 {
		return base.Reverse()
	}
	return base
}

// ReflectedDirectionBackward 计算反向驱动下的折返方向
//
// count 为反向越过 0 点时 floor(period) 的结果，是非正数：
// -1 表示在 0 点折返一次，-2 表示折返两次，依此类推。
// 折返次数取 -count 后再按奇偶判断。
func ReflectedDirectionBackward(count int32, base Direction) Direction {
	return ReflectedDirection(-count, base)
}
