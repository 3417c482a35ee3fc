package settings

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// 速度倍率允许的范围
const (
	MinSpeedScale = -4.0
	MaxSpeedScale = 4.0
)

// ShowcaseSettings 展示程序的偏好设置
type ShowcaseSettings struct {
	SpeedScale float32 `yaml:"speedScale"` // 全局速度倍率，负数表示倒放
	Paused     bool    `yaml:"paused"`     // 启动时是否暂停
	LastScene  string  `yaml:"lastScene"`  // 上次打开的场景文件，空表示内置场景
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ShowcaseSettings {
	return &ShowcaseSettings{
		SpeedScale: 1,
		Paused:     false,
		LastScene:  "",
	}
}

// SettingsManager 设置管理器
// 负责偏好设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存设置）
	settings     *ShowcaseSettings
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "showcase"
)

// NewSettingsManager 创建设置管理器
//
// gdataManager 可为 nil，此时设置只保存在内存中。
// 加载失败不是致命错误，记录警告后使用默认设置。
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Warn().
			Str("component", "SettingsManager").
			Err(err).
			Msg("failed to load settings, using defaults")
	}

	return sm
}

// Load 从 gdata 加载设置
//
// 降级模式或尚未保存过时使用默认设置。
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.SpeedScale = clampSpeed(loaded.SpeedScale)

	sm.settings = loaded
	log.Debug().Str("component", "SettingsManager").Msg("settings loaded")
	return nil
}

// Save 保存设置到 gdata，降级模式下直接返回 nil
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Debug().Str("component", "SettingsManager").Msg("settings saved")
	return nil
}

// Persistent 是否能持久化
func (sm *SettingsManager) Persistent() bool {
	return sm.gdataManager != nil
}

// GetSettings 获取当前设置的副本
func (sm *SettingsManager) GetSettings() ShowcaseSettings {
	return *sm.settings
}

// SetSpeedScale 设置速度倍率，超出范围会被截断
func (sm *SettingsManager) SetSpeedScale(scale float32) {
	sm.settings.SpeedScale = clampSpeed(scale)
}

// SetPaused 设置启动时是否暂停
func (sm *SettingsManager) SetPaused(paused bool) {
	sm.settings.Paused = paused
}

// SetLastScene 记录上次打开的场景
func (sm *SettingsManager) SetLastScene(path string) {
	sm.settings.LastScene = path
}

// clampSpeed 截断速度倍率，0 和 NaN 回到 1
func clampSpeed(scale float32) float32 {
	switch {
	case scale != scale || scale == 0:
		return 1
	case scale < MinSpeedScale:
		return MinSpeedScale
	case scale > MaxSpeedScale:
		return MaxSpeedScale
	default:
		return scale
	}
}
