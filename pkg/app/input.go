package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 按住按键时的自动重复节奏（tick）
const (
	keyRepeatDelay    = 24
	keyRepeatInterval = 6
)

// isJustTouchedOrClicked 检查是否刚刚发生点击或触摸
// 返回是否点击以及点击位置，触摸优先
func isJustTouchedOrClicked() (bool, int, int) {
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}

// isKeyRepeating 按下的那一帧返回 true，按住超过延迟后按固定间隔返回 true
func isKeyRepeating(key ebiten.Key) bool {
	return shouldRepeat(inpututil.KeyPressDuration(key))
}

// shouldRepeat 按住 duration 个 tick 时是否应触发一次
func shouldRepeat(duration int) bool {
	if duration == 1 {
		return true
	}
	return duration >= keyRepeatDelay && (duration-keyRepeatDelay)%keyRepeatInterval == 0
}
