// Package utils 提供缓动曲线
package utils

import (
	"fmt"
	"math"
	"sort"
)

// Easing Functions (缓动函数)
//
// 缓动函数把 Span 的线性进度映射为曲线进度。
// 输入 t ∈ [0, 1]，输出通常也在 [0, 1]。
// Span 的百分比可能越界或为 ±Inf，调用方应先经过 Sample 截断。
//
// 参考：https://easings.net/

// EaseFunc 缓动函数
type EaseFunc func(t float32) float32

// EaseLinear 线性缓动（无缓动）
func EaseLinear(t float32) float32 {
	return t
}

// EaseInQuad 二次方缓入
// 公式：f(t) = t²
func EaseInQuad(t float32) float32 {
	return t * t
}

// EaseOutQuad 二次方缓出
// 公式：f(t) = 1 - (1-t)²
func EaseOutQuad(t float32) float32 {
	return 1 - (1-t)*(1-t)
}

// EaseInOutQuad 二次方缓入缓出
//
//	t < 0.5:  f(t) = 2t²
//	t >= 0.5: f(t) = 1 - (-2t + 2)² / 2
func EaseInOutQuad(t float32) float32 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// EaseInCubic 三次方缓入
// 公式：f(t) = t³
func EaseInCubic(t float32) float32 {
	return t * t * t
}

// EaseOutCubic 三次方缓出
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float32) float32 {
	u := 1 - t
	return 1 - u*u*u
}

// EaseInOutCubic 三次方缓入缓出
//
//	t < 0.5:  f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float32) float32 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// EaseInOutSine 正弦缓入缓出
// 公式：f(t) = -(cos(πt) - 1) / 2
func EaseInOutSine(t float32) float32 {
	return float32(-(math.Cos(math.Pi*float64(t)) - 1) / 2)
}

// EaseOutExpo 指数缓出
// 公式：f(t) = 1 - 2^(-10t)，t >= 1 时为 1
func EaseOutExpo(t float32) float32 {
	if t >= 1 {
		return 1
	}
	return float32(1 - math.Pow(2, -10*float64(t)))
}

var easeByName = map[string]EaseFunc{
	"linear":       EaseLinear,
	"quad_in":      EaseInQuad,
	"quad_out":     EaseOutQuad,
	"quad_in_out":  EaseInOutQuad,
	"cubic_in":     EaseInCubic,
	"cubic_out":    EaseOutCubic,
	"cubic_in_out": EaseInOutCubic,
	"sine_in_out":  EaseInOutSine,
	"expo_out":     EaseOutExpo,
}

// EaseByName 按名称查找缓动函数，空名称返回线性
func EaseByName(name string) (EaseFunc, error) {
	if name == "" {
		return EaseLinear, nil
	}
	fn, ok := easeByName[name]
	if !ok {
		return nil, fmt.Errorf("unknown ease %q", name)
	}
	return fn, nil
}

// EaseNames 所有可用缓动名称（排序后）
func EaseNames() []string {
	names := make([]string, 0, len(easeByName))
	for name := range easeByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sample 对 Span 百分比采样
//
// 百分比先截断到 [0, 1]（+Inf → 1，-Inf → 0），再交给 ease；
// ease 为 nil 时按线性处理。
func Sample(percentage float32, ease EaseFunc) float32 {
	t := Clamp01(percentage)
	if ease == nil {
		return t
	}
	return ease(t)
}

// Clamp01 截断到 [0, 1]，NaN 视为 0
func Clamp01(v float32) float32 {
	switch {
	case v != v:
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Lerp 线性插值
// 在 a 和 b 之间根据 t 插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
