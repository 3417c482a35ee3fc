package timeline

import "math"

// SpanProgress 某个 Span 在本帧的局部进度
//
// Now / Previous 为相对 Span 起点的秒数，百分比 = 局部秒数 / Span 长度。
// 百分比不做截断，可能小于 0 或大于 1，由下游（缓动采样）自行截断。
// Span 长度为 0 时百分比为 ±Inf，用符号区分"已经过"与"尚未到达"。
type SpanProgress struct {
	Now                float32
	NowPercentage      float32
	Previous           float32
	PreviousPercentage float32
}

var (
	posInf = float32(math.Inf(1))
	negInf = float32(math.Inf(-1))
)

// percentage 局部时间 → 百分比，零长度 Span 返回 ±Inf
func percentage(local, length float32, dir Direction) float32 {
	if length > 0 {
		return local / length
	}
	switch {
	case local > 0:
		return posInf
	case local < 0:
		return negInf
	case dir == Backward:
		return negInf
	default:
		return posInf
	}
}
