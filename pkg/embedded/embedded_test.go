package embedded

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/scenes/a.yaml": {Data: []byte("name: a")},
		"data/scenes/b.yaml": {Data: []byte("name: b")},
		"data/readme.txt":    {Data: []byte("hi")},
	}
}

// TestNotInitialized 未初始化时返回错误
func TestNotInitialized(t *testing.T) {
	Init(nil)
	assert.False(t, IsInitialized())

	_, err := ReadFile("data/scenes/a.yaml")
	assert.True(t, errors.Is(err, ErrNotInitialized))
	assert.False(t, Exists("data/scenes/a.yaml"))
}

// TestReadFile 测试读取文件
func TestReadFile(t *testing.T) {
	Init(testFS())
	t.Cleanup(func() { Init(nil) })

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"普通路径", "data/scenes/a.yaml", "name: a", false},
		{"带 ./ 前缀", "./data/scenes/b.yaml", "name: b", false},
		{"未知前缀", "assets/a.png", "", true},
		{"文件不存在", "data/scenes/c.yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

// TestExistsAndGlob 测试存在性检查和通配匹配
func TestExistsAndGlob(t *testing.T) {
	Init(testFS())
	t.Cleanup(func() { Init(nil) })

	assert.True(t, Exists("data/readme.txt"))
	assert.False(t, Exists("data/missing.txt"))
	assert.False(t, Exists("readme.txt"))

	files, err := Glob("data/scenes/*.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"data/scenes/a.yaml", "data/scenes/b.yaml"}, files)

	_, err = Glob("*.yaml")
	assert.Error(t, err)
}
