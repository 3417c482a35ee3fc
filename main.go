package main

import (
	"flag"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/decker502/spantime/pkg/app"
	"github.com/decker502/spantime/pkg/embedded"
	"github.com/decker502/spantime/pkg/settings"
)

var (
	scenePath = flag.String("scene", "", "场景文件路径，留空时使用上次的场景或内置场景")
	workers   = flag.Int("workers", 0, "并发推进时间线的 worker 数，0 表示 GOMAXPROCS")
	verbose   = flag.Bool("verbose", false, "详细日志")
)

func main() {
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	embedded.Init(dataFS)

	// 存储不可用时退回仅内存的设置
	storage, err := gdata.Open(gdata.Config{AppName: "spantime"})
	if err != nil {
		log.Warn().Err(err).Msg("settings storage unavailable, preferences will not persist")
		storage = nil
	}

	showcase, err := app.NewApp(app.Config{
		ScenePath: *scenePath,
		Workers:   *workers,
		Settings:  settings.NewSettingsManager(storage),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start showcase")
	}

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("spantime")

	if err := ebiten.RunGame(showcase); err != nil {
		log.Fatal().Err(err).Msg("showcase exited with error")
	}
}
