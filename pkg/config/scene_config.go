package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/decker502/spantime/pkg/embedded"
	"github.com/decker502/spantime/pkg/timeline"
)

// DefaultScenePath 内置的默认展示场景
const DefaultScenePath = "data/scenes/showcase.yaml"

// ErrInvalidScene 场景配置不合法
var ErrInvalidScene = errors.New("invalid scene config")

// SceneConfig 场景配置
// 一个场景包含若干条时间线，每条时间线下挂若干 Span
type SceneConfig struct {
	Version   string           `yaml:"version"`   // 配置版本，目前为 "1"
	Name      string           `yaml:"name"`      // 场景名称（可选）
	Timelines []TimelineConfig `yaml:"timelines"` // 时间线列表
}

// TimelineConfig 单条时间线配置
type TimelineConfig struct {
	Name      string        `yaml:"name"`      // 时间线名称，场景内唯一
	Length    string        `yaml:"length"`    // 长度，Go duration 格式，如 "5s"、"1500ms"；有 sequence 时可省略
	Direction string        `yaml:"direction"` // "forward"（默认）或 "backward"
	Speed     float32       `yaml:"speed"`     // 速度倍率，0 表示 1
	Paused    bool          `yaml:"paused"`    // 初始是否暂停
	Start     string        `yaml:"start"`     // 初始位置（可选），默认为方向的起点
	Repeat    *RepeatConfig `yaml:"repeat"`    // 重复配置（可选）
	Spans     []SpanConfig  `yaml:"spans"`     // Span 列表
	Sequence  []StepConfig  `yaml:"sequence"`  // 按游标顺序编排的 Span（可选），排在 spans 之后
}

// StepConfig sequence 中的一步，name、gap、at、parallel 必须且只能设置一个
//
//	sequence:
//	  - {name: fade_in, length: 500ms, ease: quad_out}
//	  - {gap: 250ms}
//	  - parallel:
//	      - {name: slide, length: 2s}
//	      - {name: grow, length: 1s}
type StepConfig struct {
	Name     string       `yaml:"name"`     // 在游标处放置 Span，然后游标移到 Span 结束处
	Length   string       `yaml:"length"`   // Span 长度，为空或 0 时放置跳变点
	Ease     string       `yaml:"ease"`     // 缓动曲线名称（可选）
	Gap      string       `yaml:"gap"`      // 游标前移，负值后移（最小为 0）
	At       string       `yaml:"at"`       // 游标跳到指定位置
	Parallel []StepConfig `yaml:"parallel"` // 每一步都从同一游标开始，结束后游标停在最远处
}

// ResolvedSpan 解析后的 Span，包括 spans 与 sequence 两种写法
type ResolvedSpan struct {
	Name string
	Span timeline.Span
	Ease string
}

// RepeatConfig 重复配置
type RepeatConfig struct {
	Style   string `yaml:"style"`   // "wrap_around"（默认）或 "ping_pong"
	Times   int32  `yaml:"times"`   // 重复次数，0 表示无限
	Counted bool   `yaml:"counted"` // 无限重复时是否计数
}

// SpanConfig Span 配置
type SpanConfig struct {
	Name  string `yaml:"name"`  // Span 名称，时间线内唯一
	Range string `yaml:"range"` // 区间，如 "[2s, 4s)"、"(0s, 1s]"、"[3s, 3s]"
	Ease  string `yaml:"ease"`  // 缓动曲线名称（可选）
}

// LoadSceneConfig 从 YAML 文件加载场景配置
//
// 参数：
//
//	path - 场景文件路径
//
// 返回：
//
//	*SceneConfig - 解析并校验后的场景配置
//	error - 读取、解析或校验失败
func LoadSceneConfig(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config file %s: %w", path, err)
	}

	cfg, err := ParseSceneConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadScene 加载场景，优先使用内置场景，找不到时从磁盘读取
func LoadScene(path string) (*SceneConfig, error) {
	if !embedded.Exists(path) {
		return LoadSceneConfig(path)
	}

	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded scene %s: %w", path, err)
	}
	cfg, err := ParseSceneConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// EmbeddedScenes 列出所有内置场景路径
func EmbeddedScenes() ([]string, error) {
	return embedded.Glob("data/scenes/*.yaml")
}

// ParseSceneConfig 解析并校验 YAML 场景配置
func ParseSceneConfig(data []byte) (*SceneConfig, error) {
	var cfg SceneConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene config YAML: %w", err)
	}

	applySceneDefaults(&cfg)

	if err := validateSceneConfig(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	return &cfg, nil
}

// applySceneDefaults 为缺失的可选字段设置默认值
func applySceneDefaults(cfg *SceneConfig) {
	if cfg.Version == "" {
		cfg.Version = "1"
	}
	for i := range cfg.Timelines {
		tc := &cfg.Timelines[i]
		if tc.Direction == "" {
			tc.Direction = "forward"
		}
		if tc.Speed == 0 {
			tc.Speed = 1
		}
		if tc.Repeat != nil && tc.Repeat.Style == "" {
			tc.Repeat.Style = "wrap_around"
		}
	}
}

// validateSceneConfig 校验场景配置的完整性和合法性
func validateSceneConfig(cfg *SceneConfig) error {
	if cfg.Version != "1" {
		return fmt.Errorf("unsupported version %q", cfg.Version)
	}
	if len(cfg.Timelines) == 0 {
		return fmt.Errorf("at least one timeline is required")
	}

	names := make(map[string]struct{}, len(cfg.Timelines))
	for i, tc := range cfg.Timelines {
		if tc.Name == "" {
			return fmt.Errorf("timeline %d: name is required", i)
		}
		if _, dup := names[tc.Name]; dup {
			return fmt.Errorf("timeline %d: duplicate name %q", i, tc.Name)
		}
		names[tc.Name] = struct{}{}

		if _, err := tc.Options(); err != nil {
			return fmt.Errorf("timeline %d (%s): %w", i, tc.Name, err)
		}
		length, _ := tc.LengthDuration()

		spanNames := make(map[string]struct{}, len(tc.Spans))
		for j, sc := range tc.Spans {
			if sc.Name == "" {
				return fmt.Errorf("timeline %d (%s), span %d: name is required", i, tc.Name, j)
			}
			if _, dup := spanNames[sc.Name]; dup {
				return fmt.Errorf("timeline %d (%s), span %d: duplicate name %q", i, tc.Name, j, sc.Name)
			}
			spanNames[sc.Name] = struct{}{}

			span, err := sc.ParseSpan()
			if err != nil {
				return fmt.Errorf("timeline %d (%s), span %d (%s): %w", i, tc.Name, j, sc.Name, err)
			}
			if span.Max().At > length {
				return fmt.Errorf("timeline %d (%s), span %d (%s): span %v ends after timeline length %v",
					i, tc.Name, j, sc.Name, span, length)
			}
		}

		if len(tc.Sequence) == 0 {
			continue
		}
		placed, _, err := tc.placeSequence()
		if err != nil {
			return fmt.Errorf("timeline %d (%s): %w", i, tc.Name, err)
		}
		for _, ps := range placed {
			if _, dup := spanNames[ps.Name]; dup {
				return fmt.Errorf("timeline %d (%s), sequence: duplicate name %q", i, tc.Name, ps.Name)
			}
			spanNames[ps.Name] = struct{}{}
			if ps.Span.Max().At > length {
				return fmt.Errorf("timeline %d (%s), sequence span %s: span %v ends after timeline length %v",
					i, tc.Name, ps.Name, ps.Span, length)
			}
		}
	}
	return nil
}

// LengthDuration 解析时间线长度
//
// 未填写 length 时取 sequence 中最远的 Span 结束位置。
func (tc TimelineConfig) LengthDuration() (time.Duration, error) {
	if tc.Length == "" {
		if len(tc.Sequence) == 0 {
			return 0, fmt.Errorf("length is required")
		}
		b, _, err := tc.buildSequence()
		if err != nil {
			return 0, err
		}
		return b.Length(), nil
	}
	d, err := time.ParseDuration(tc.Length)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q: %w", tc.Length, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("length %v: %w", d, timeline.ErrNegativeLength)
	}
	return d, nil
}

// Options 转换为 timeline.Options
func (tc TimelineConfig) Options() (timeline.Options, error) {
	var opts timeline.Options

	length, err := tc.LengthDuration()
	if err != nil {
		return opts, err
	}

	switch tc.Direction {
	case "", "forward":
		opts.Direction = timeline.Forward
	case "backward":
		opts.Direction = timeline.Backward
	default:
		return opts, fmt.Errorf("direction must be one of: forward, backward, got %q", tc.Direction)
	}

	opts.Paused = tc.Paused
	if math.IsNaN(float64(tc.Speed)) || math.IsInf(float64(tc.Speed), 0) {
		return opts, fmt.Errorf("speed must be finite, got %v", tc.Speed)
	}
	opts.SpeedScale = tc.Speed

	if tc.Start != "" {
		start, err := time.ParseDuration(tc.Start)
		if err != nil {
			return opts, fmt.Errorf("invalid start %q: %w", tc.Start, err)
		}
		if start < 0 || start > length {
			return opts, fmt.Errorf("start %v must be within [0, %v]", start, length)
		}
		secs := float32(start.Seconds())
		opts.Start = &secs
	}

	if tc.Repeat != nil {
		r, err := tc.Repeat.toRepeat()
		if err != nil {
			return opts, err
		}
		opts.Repeat = &r
	}
	return opts, nil
}

func (rc RepeatConfig) toRepeat() (timeline.Repeat, error) {
	var r timeline.Repeat

	switch rc.Style {
	case "", "wrap_around":
		r.Style = timeline.WrapAround
	case "ping_pong":
		r.Style = timeline.PingPong
	default:
		return r, fmt.Errorf("repeat style must be one of: wrap_around, ping_pong, got %q", rc.Style)
	}

	switch {
	case rc.Times < 0:
		return r, fmt.Errorf("repeat times cannot be negative, got %d", rc.Times)
	case rc.Times > 0 && rc.Counted:
		return r, fmt.Errorf("repeat counted only applies to infinite repeat (times: 0)")
	case rc.Times > 0:
		r.Policy = timeline.Times(rc.Times)
	case rc.Counted:
		r.Policy = timeline.InfiniteCounted()
	default:
		r.Policy = timeline.Infinite()
	}
	return r, nil
}

// ResolveSpans 按配置顺序返回全部 Span：先 spans，再 sequence
func (tc TimelineConfig) ResolveSpans() ([]ResolvedSpan, error) {
	out := make([]ResolvedSpan, 0, len(tc.Spans))
	for j, sc := range tc.Spans {
		span, err := sc.ParseSpan()
		if err != nil {
			return nil, fmt.Errorf("span %d (%s): %w", j, sc.Name, err)
		}
		out = append(out, ResolvedSpan{Name: sc.Name, Span: span, Ease: sc.Ease})
	}

	if len(tc.Sequence) == 0 {
		return out, nil
	}
	placed, eases, err := tc.placeSequence()
	if err != nil {
		return nil, err
	}
	for _, ps := range placed {
		out = append(out, ResolvedSpan{Name: ps.Name, Span: ps.Span, Ease: eases[ps.Name]})
	}
	return out, nil
}

// buildSequence 用 timeline.Builder 执行 sequence，返回 Builder 和 Span 名称到缓动曲线的映射
func (tc TimelineConfig) buildSequence() (*timeline.Builder, map[string]string, error) {
	eases := make(map[string]string)
	steps, err := toSteps(tc.Sequence, eases, "sequence")
	if err != nil {
		return nil, nil, err
	}
	return timeline.NewBuilder().Apply(timeline.Sequence(steps...)), eases, nil
}

func (tc TimelineConfig) placeSequence() ([]timeline.PlacedSpan, map[string]string, error) {
	b, eases, err := tc.buildSequence()
	if err != nil {
		return nil, nil, err
	}
	return b.Spans(), eases, nil
}

func toSteps(items []StepConfig, eases map[string]string, path string) ([]timeline.Step, error) {
	steps := make([]timeline.Step, 0, len(items))
	for k, item := range items {
		step, err := item.toStep(eases, fmt.Sprintf("%s step %d", path, k))
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (sc StepConfig) toStep(eases map[string]string, path string) (timeline.Step, error) {
	set := 0
	for _, ok := range []bool{sc.Name != "", sc.Gap != "", sc.At != "", len(sc.Parallel) > 0} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%s: step must set exactly one of: name, gap, at, parallel", path)
	}
	if sc.Name == "" && (sc.Length != "" || sc.Ease != "") {
		return nil, fmt.Errorf("%s: length and ease only apply to named steps", path)
	}

	switch {
	case sc.Name != "":
		var length time.Duration
		if sc.Length != "" {
			d, err := time.ParseDuration(sc.Length)
			if err != nil {
				return nil, fmt.Errorf("%s (%s): invalid length %q: %w", path, sc.Name, sc.Length, err)
			}
			if d < 0 {
				return nil, fmt.Errorf("%s (%s): length %v must not be negative", path, sc.Name, d)
			}
			length = d
		}
		eases[sc.Name] = sc.Ease
		return timeline.Add(sc.Name, length), nil

	case sc.Gap != "":
		d, err := time.ParseDuration(sc.Gap)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid gap %q: %w", path, sc.Gap, err)
		}
		if d < 0 {
			return timeline.MoveBackward(-d), nil
		}
		return timeline.MoveForward(d), nil

	case sc.At != "":
		d, err := time.ParseDuration(sc.At)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid at %q: %w", path, sc.At, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("%s: at %v must not be negative", path, d)
		}
		return timeline.GoTo(d), nil

	default:
		steps, err := toSteps(sc.Parallel, eases, path+" parallel")
		if err != nil {
			return nil, err
		}
		return timeline.Parallel(steps...), nil
	}
}

// ParseSpan 解析 Span 区间
func (sc SpanConfig) ParseSpan() (timeline.Span, error) {
	return ParseSpanRange(sc.Range)
}

// ParseSpanRange 解析区间字符串
//
// 格式："[" 或 "(" + 起点 + "," + 终点 + "]" 或 ")"，起止点为 Go duration，
// 方括号包含端点，圆括号不包含。例如 "[2s, 4s)"、"[0s, 1.5s]"。
func ParseSpanRange(s string) (timeline.Span, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return timeline.Span{}, fmt.Errorf("invalid range %q", s)
	}

	var minKind, maxKind timeline.BoundKind
	switch s[0] {
	case '[':
		minKind = timeline.Inclusive
	case '(':
		minKind = timeline.Exclusive
	default:
		return timeline.Span{}, fmt.Errorf("range %q must start with '[' or '('", s)
	}
	switch s[len(s)-1] {
	case ']':
		maxKind = timeline.Inclusive
	case ')':
		maxKind = timeline.Exclusive
	default:
		return timeline.Span{}, fmt.Errorf("range %q must end with ']' or ')'", s)
	}

	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 2 {
		return timeline.Span{}, fmt.Errorf("range %q must have exactly two bounds", s)
	}
	lo, err := time.ParseDuration(strings.TrimSpace(parts[0]))
	if err != nil {
		return timeline.Span{}, fmt.Errorf("range %q: invalid min: %w", s, err)
	}
	hi, err := time.ParseDuration(strings.TrimSpace(parts[1]))
	if err != nil {
		return timeline.Span{}, fmt.Errorf("range %q: invalid max: %w", s, err)
	}

	return timeline.NewSpan(
		timeline.Bound{Kind: minKind, At: lo},
		timeline.Bound{Kind: maxKind, At: hi},
	)
}
