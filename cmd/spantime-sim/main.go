// Command spantime-sim 在终端里无界面地运行场景
//
// 用法：
//
//	spantime-sim run --scene data/scenes/showcase.yaml --dt 0.1 --frames 60
//	spantime-sim validate --scene data/scenes/showcase.yaml
//
// 所有参数都可以通过 SPANTIME_ 前缀的环境变量设置，如 SPANTIME_DT=0.05。
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
