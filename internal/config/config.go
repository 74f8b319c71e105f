package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// WindowConfig holds the host window settings.
type WindowConfig struct {
	Width  int    `json:"width" mapstructure:"width"`
	Height int    `json:"height" mapstructure:"height"`
	Title  string `json:"title" mapstructure:"title"`
}

// AudioConfig holds the mixer volumes, each in [0,1].
type AudioConfig struct {
	Master  float64 `json:"master" mapstructure:"master"`
	Siren   float64 `json:"siren" mapstructure:"siren"`
	Effects float64 `json:"effects" mapstructure:"effects"`
}

// SimConfig holds the tuning overrides applied on top of the simulation
// defaults. Zero values mean "keep the default".
type SimConfig struct {
	Seed         int64   `json:"seed" mapstructure:"seed"`
	Extent       float64 `json:"extent" mapstructure:"extent"`
	MaxBuildings int     `json:"maxBuildings" mapstructure:"maxBuildings"`
}

const configName = "ember_city.cfg.json"

// Load reads configuration from the JSON file in configDir and sets default
// values. A missing file is not an error; the defaults stand and the caller
// may log a warning. A malformed file is an error.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 720)
	viper.SetDefault("window.title", "Ember City")

	viper.SetDefault("audio.master", 0.8)
	viper.SetDefault("audio.siren", 0.6)
	viper.SetDefault("audio.effects", 0.7)

	viper.SetDefault("sim.seed", 0)
	viper.SetDefault("sim.extent", 0)
	viper.SetDefault("sim.maxBuildings", 0)

	viper.SetConfigName(configName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %v", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetWindowConfig returns the window settings. Leaf keys are read one by one
// so defaults apply even when the file carries a partial window section.
func GetWindowConfig() WindowConfig {
	return WindowConfig{
		Width:  viper.GetInt("window.width"),
		Height: viper.GetInt("window.height"),
		Title:  viper.GetString("window.title"),
	}
}

// GetAudioConfig returns the mixer volumes, clamped to [0,1].
func GetAudioConfig() AudioConfig {
	return AudioConfig{
		Master:  clampUnit(viper.GetFloat64("audio.master")),
		Siren:   clampUnit(viper.GetFloat64("audio.siren")),
		Effects: clampUnit(viper.GetFloat64("audio.effects")),
	}
}

// GetSimConfig returns the simulation tuning overrides.
func GetSimConfig() SimConfig {
	return SimConfig{
		Seed:         viper.GetInt64("sim.seed"),
		Extent:       viper.GetFloat64("sim.extent"),
		MaxBuildings: viper.GetInt("sim.maxBuildings"),
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
