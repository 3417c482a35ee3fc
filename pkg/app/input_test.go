package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestShouldRepeat 测试按键自动重复节奏
func TestShouldRepeat(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		expected bool
	}{
		{"未按下", 0, false},
		{"刚按下", 1, true},
		{"延迟中", 10, false},
		{"延迟结束", keyRepeatDelay, true},
		{"间隔之间", keyRepeatDelay + 1, false},
		{"下一次重复", keyRepeatDelay + keyRepeatInterval, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shouldRepeat(tt.duration))
		})
	}
}
