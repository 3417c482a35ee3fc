package main

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/decker502/spantime/pkg/config"
)

// 配置键
const (
	keyScene   = "scene"
	keyVerbose = "verbose"
	keyDt      = "dt"
	keyFrames  = "frames"
	keyWorkers = "workers"
)

// newRootCmd 构建命令树，每次调用使用独立的 viper 实例
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SPANTIME")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "spantime-sim",
		Short:         "Run spantime scenes headless",
		Long:          "spantime-sim steps the timelines of a scene file at a fixed delta and prints span progress.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(v.GetBool(keyVerbose))
		},
	}

	root.PersistentFlags().String(keyScene, config.DefaultScenePath, "scene file")
	root.PersistentFlags().BoolP(keyVerbose, "v", false, "verbose output")
	_ = v.BindPFlag(keyScene, root.PersistentFlags().Lookup(keyScene))
	_ = v.BindPFlag(keyVerbose, root.PersistentFlags().Lookup(keyVerbose))

	root.AddCommand(newRunCmd(v))
	root.AddCommand(newValidateCmd(v))
	return root
}

// setupLogging 日志写到 stderr，stdout 只留给表格输出
func setupLogging(verbose bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}
