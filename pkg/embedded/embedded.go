// Package embedded 提供内置场景文件的统一访问接口
//
// //go:embed 只能嵌入当前包目录及其子目录的文件，
// 因此 embed.FS 声明在项目根目录（embed.go），由 main 调用 Init 注入。
// 测试可以传入 fstest.MapFS。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotInitialized 尚未调用 Init
var ErrNotInitialized = errors.New("embedded package not initialized, call Init() first")

const dataPrefix = "data/"

var (
	mu     sync.RWMutex
	dataFS fs.FS
)

// Init 注入内置数据文件系统，路径以 "data/" 开头
func Init(data fs.FS) {
	mu.Lock()
	defer mu.Unlock()
	dataFS = data
}

// IsInitialized 返回是否已初始化
func IsInitialized() bool {
	mu.RLock()
	defer mu.RUnlock()
	return dataFS != nil
}

// normalize 统一分隔符并去掉 "./" 前缀，校验路径前缀
func normalize(path string) (string, fs.FS, error) {
	mu.RLock()
	fsys := dataFS
	mu.RUnlock()
	if fsys == nil {
		return "", nil, ErrNotInitialized
	}

	path = strings.TrimPrefix(filepath.ToSlash(path), "./")
	if !strings.HasPrefix(path, dataPrefix) {
		return "", nil, fmt.Errorf("unknown resource path prefix: %s (must start with %q)", path, dataPrefix)
	}
	return path, fsys, nil
}

// ReadFile 读取内置文件内容
func ReadFile(path string) ([]byte, error) {
	path, fsys, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(fsys, path)
}

// Exists 检查内置文件是否存在
func Exists(path string) bool {
	path, fsys, err := normalize(path)
	if err != nil {
		return false
	}
	_, err = fs.Stat(fsys, path)
	return err == nil
}

// Glob 匹配内置文件，结果按字典序排列
func Glob(pattern string) ([]string, error) {
	pattern, fsys, err := normalize(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(fsys, pattern)
}
