package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configName), []byte(body), 0644))
	return dir
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{}`)
	require.NoError(t, Load(dir))

	assert.Equal(t, "info", viper.GetString("logLevel"))

	wc := GetWindowConfig()
	assert.Equal(t, 1280, wc.Width)
	assert.Equal(t, 720, wc.Height)
	assert.Equal(t, "Ember City", wc.Title)

	ac := GetAudioConfig()
	assert.Equal(t, 0.8, ac.Master)
	assert.Equal(t, 0.6, ac.Siren)
	assert.Equal(t, 0.7, ac.Effects)

	sc := GetSimConfig()
	assert.Equal(t, int64(0), sc.Seed)
	assert.Equal(t, 0.0, sc.Extent)
	assert.Equal(t, 0, sc.MaxBuildings)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"window": { "width": 1920, "height": 1080 },
		"audio": { "siren": 0.25 },
		"sim": { "seed": 99, "maxBuildings": 50 }
	}`)
	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", viper.GetString("logLevel"))

	wc := GetWindowConfig()
	assert.Equal(t, 1920, wc.Width)
	assert.Equal(t, 1080, wc.Height)
	assert.Equal(t, "Ember City", wc.Title)

	ac := GetAudioConfig()
	assert.Equal(t, 0.25, ac.Siren)
	assert.Equal(t, 0.8, ac.Master)

	sc := GetSimConfig()
	assert.Equal(t, int64(99), sc.Seed)
	assert.Equal(t, 50, sc.MaxBuildings)
}

func TestLoad_PartialSectionMergesWithDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{"audio": { "siren": 0.25 }}`)
	require.NoError(t, Load(dir))

	ac := GetAudioConfig()
	assert.Equal(t, 0.25, ac.Siren)
	assert.Equal(t, 0.8, ac.Master)
	assert.Equal(t, 0.7, ac.Effects)

	wc := GetWindowConfig()
	assert.Equal(t, "Ember City", wc.Title)
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(t.TempDir()))
	assert.Equal(t, "info", viper.GetString("logLevel"))
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{not json`)
	err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetAudioConfig_ClampsVolumes(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{"audio": { "master": 1.5, "effects": -0.2 }}`)
	require.NoError(t, Load(dir))

	ac := GetAudioConfig()
	assert.Equal(t, 1.0, ac.Master)
	assert.Equal(t, 0.0, ac.Effects)
	assert.Equal(t, 0.6, ac.Siren)
}
