package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

var Env = map[string]string{
	"MUSIC_DIR":       os.Getenv("MUSIC_DIR"),
	"OUTPUT_LOCATION": os.Getenv("OUTPUT_LOCATION"),
}

// GetMusicDir returns the music library root to scan.
// Precedence: user settings file, MUSIC_DIR env var, ~/Music.
func GetMusicDir() string {
	// First check the settings file for a custom location
	if custom := getUserMusicDir(); custom != "" {
		return custom
	}

	if dir := Env["MUSIC_DIR"]; dir != "" {
		return dir
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if can't get home dir
		return filepath.Join(".", "Music")
	}

	return filepath.Join(homeDir, "Music")
}

// GetOutputLocation returns where reports are written (default: current directory)
func GetOutputLocation() string {
	if custom := getUserOutputDir(); custom != "" {
		return custom
	}

	if out := Env["OUTPUT_LOCATION"]; out != "" {
		return out
	}
	return "."
}

// UserSettings represents the user's personal settings
type UserSettings struct {
	MusicDir  string `json:"musicDir"`
	OutputDir string `json:"outputDir"`
}

// SettingsFilePath returns the path to the settings file
func SettingsFilePath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".melodex-settings.json")
}

// loadUserSettings reads and parses the settings file, if present
func loadUserSettings() *UserSettings {
	settingsPath := SettingsFilePath()

	// If file doesn't exist, fall back to env vars
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil
	}

	var settings UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil
	}

	return &settings
}

// getUserMusicDir loads the user's preferred music directory from the settings file
func getUserMusicDir() string {
	if settings := loadUserSettings(); settings != nil {
		return settings.MusicDir
	}
	return ""
}

// getUserOutputDir loads the user's preferred output directory from the settings file
func getUserOutputDir() string {
	if settings := loadUserSettings(); settings != nil {
		return settings.OutputDir
	}
	return ""
}
