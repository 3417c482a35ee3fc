// Package app 提供展示程序的 ebiten.Game 包装器
//
// 每个 tick 推进一次 Runner，并把每条时间线和它的 Span 画成进度条。
// 桌面端通过根目录的 main.go 调用 NewApp()。
package app

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog/log"

	"github.com/decker502/spantime/pkg/config"
	"github.com/decker502/spantime/pkg/settings"
)

// 窗口尺寸
const (
	WindowWidth  = 800
	WindowHeight = 600
)

// 布局常量
const (
	trackX      = 180
	trackWidth  = 580
	trackHeight = 10
	rowTop      = 60
	spanHeight  = 8
	spanGap     = 4
	rowGap      = 24
	speedStep   = 0.25
)

var (
	colorBackground = color.RGBA{R: 24, G: 26, B: 32, A: 255}
	colorTrack      = color.RGBA{R: 60, G: 64, B: 76, A: 255}
	colorElapsed    = color.RGBA{R: 90, G: 160, B: 230, A: 255}
	colorCompleted  = color.RGBA{R: 110, G: 200, B: 120, A: 255}
	colorPaused     = color.RGBA{R: 150, G: 150, B: 160, A: 255}
	colorCursor     = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	colorSpanIdle   = color.RGBA{R: 80, G: 84, B: 96, A: 255}
	colorSpanActive = color.RGBA{R: 240, G: 170, B: 60, A: 255}
)

// Config 定义应用启动配置
type Config struct {
	// ScenePath 场景文件，内置场景以 "data/" 开头
	ScenePath string
	// Workers Runner 的并发数，<= 0 时使用 GOMAXPROCS
	Workers int
	// Settings 偏好设置，nil 时使用仅内存的设置
	Settings *settings.SettingsManager
}

// App 实现 ebiten.Game 接口
type App struct {
	showcase  *Showcase
	sceneName string

	// rowBounds 上一帧每条时间线占据的 [top, bottom)，用于点击命中
	rowBounds [][2]float32
}

// NewApp 加载场景并创建应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化内置场景。
func NewApp(cfg Config) (*App, error) {
	sm := cfg.Settings
	if sm == nil {
		sm = settings.NewSettingsManager(nil)
	}

	path := cfg.ScenePath
	if path == "" {
		path = sm.GetSettings().LastScene
	}
	if path == "" {
		path = config.DefaultScenePath
	}

	sceneCfg, err := config.LoadScene(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}

	showcase, err := NewShowcase(sceneCfg, sm, cfg.Workers)
	if err != nil {
		return nil, err
	}

	sm.SetLastScene(path)
	showcase.save()

	log.Info().
		Str("component", "App").
		Str("scene", path).
		Int("timelines", len(sceneCfg.Timelines)).
		Msg("showcase started")

	return &App{showcase: showcase, sceneName: sceneCfg.Name}, nil
}

// Update 处理按键并推进一帧
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		a.showcase.TogglePause()
	}
	if isKeyRepeating(ebiten.KeyArrowUp) || isKeyRepeating(ebiten.KeyArrowRight) {
		a.showcase.AdjustSpeed(speedStep)
	}
	if isKeyRepeating(ebiten.KeyArrowDown) || isKeyRepeating(ebiten.KeyArrowLeft) {
		a.showcase.AdjustSpeed(-speedStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.showcase.Reverse()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		a.showcase.Restart()
	}
	if clicked, _, y := isJustTouchedOrClicked(); clicked {
		a.showcase.ToggleTimeline(rowAt(a.rowBounds, float32(y)))
	}

	a.showcase.Step(1.0 / float64(ebiten.TPS()))
	return nil
}

// Draw 绘制每条时间线和它的 Span
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	state := "running"
	if a.showcase.Paused() {
		state = "paused"
	}
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("%s  [%s]  speed x%.2f   SPACE pause  ARROWS speed  R reverse  S restart  CLICK pause row",
			a.sceneName, state, a.showcase.SpeedScale()),
		10, 10)

	a.rowBounds = a.rowBounds[:0]
	y := float32(rowTop)
	for _, row := range a.showcase.Rows() {
		next := drawRow(screen, row, y)
		a.rowBounds = append(a.rowBounds, [2]float32{y - rowGap/2, next - rowGap/2})
		y = next
	}

	for i, ev := range a.showcase.RecentEvents() {
		ebitenutil.DebugPrintAt(screen, ev, 10, WindowHeight-20-16*(len(a.showcase.RecentEvents())-1-i))
	}
}

// drawRow 绘制一条时间线，返回下一行的 y
func drawRow(screen *ebiten.Image, row TimelineRow, y float32) float32 {
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("%s %.2f/%.2fs %s", row.Name, row.Now, row.Length, row.Direction),
		10, int(y)-4)

	vector.DrawFilledRect(screen, trackX, y, trackWidth, trackHeight, colorTrack, false)

	fill := colorElapsed
	switch {
	case row.Paused:
		fill = colorPaused
	case row.Completed:
		fill = colorCompleted
	}
	x := scaleX(row.Now, row.Length)
	vector.DrawFilledRect(screen, trackX, y, x-trackX, trackHeight, fill, false)
	vector.StrokeLine(screen, x, y-3, x, y+trackHeight+3, 2, colorCursor, true)

	y += trackHeight + spanGap
	for _, span := range row.Spans {
		x0 := scaleX(span.Min, row.Length)
		x1 := scaleX(span.Max, row.Length)
		width := x1 - x0
		if width < 2 {
			width = 2
		}

		vector.DrawFilledRect(screen, x0, y, width, spanHeight, colorSpanIdle, false)
		if span.Visible {
			vector.DrawFilledRect(screen, x0, y, width*span.Eased, spanHeight, colorSpanActive, false)
			vector.StrokeRect(screen, x0, y, width, spanHeight, 1, colorSpanActive, false)
		}
		ebitenutil.DebugPrintAt(screen, span.Name, trackX-len(span.Name)*6-8, int(y)-5)
		y += spanHeight + spanGap
	}
	return y + rowGap
}

// rowAt 返回 y 所在的行号，不在任何行内时返回 -1
func rowAt(bounds [][2]float32, y float32) int {
	for i, b := range bounds {
		if y >= b[0] && y < b[1] {
			return i
		}
	}
	return -1
}

// scaleX 时间线上的秒数转换为屏幕 x 坐标
func scaleX(secs, length float32) float32 {
	if length <= 0 {
		return trackX
	}
	return trackX + trackWidth*secs/length
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}
