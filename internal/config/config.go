package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	// PublicDir is the asset root served to the renderer; audio, images,
	// and render assets live beneath it.
	PublicDir       string `toml:"public_dir"`
	ScriptPath      string `toml:"script_path"`
	AudioDir        string `toml:"audio_dir"`
	ImagesDir       string `toml:"images_dir"`
	RenderAssetsDir string `toml:"render_assets_dir"`
	RenderInputPath string `toml:"render_input_path"`
	OutputPath      string `toml:"output_path"`
	LogDir          string `toml:"log_dir"`
	APIBind         string `toml:"api_bind"`
}

// SpeakerProfile tunes speech synthesis for one voice.
type SpeakerProfile struct {
	ID               int     `toml:"id"`
	SpeedScale       float64 `toml:"speed_scale"`
	IntonationScale  float64 `toml:"intonation_scale"`
	PrePhonemeLength float64 `toml:"pre_phoneme_length"`
}

// VoiceVox contains configuration for the VOICEVOX synthesis service.
type VoiceVox struct {
	BaseURL        string                    `toml:"base_url"`
	TimeoutSeconds int                       `toml:"timeout_seconds"`
	Speakers       map[string]SpeakerProfile `toml:"speakers"`
}

// Render contains configuration for the external renderer subprocess.
type Render struct {
	Binary         string   `toml:"binary"`
	Args           []string `toml:"args"`
	WorkDir        string   `toml:"work_dir"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the backend.
//
// Configuration sections by subsystem:
//   - Paths: asset root, script store, render artifacts, API bind address
//   - VoiceVox: synthesis service endpoint and per-speaker tuning
//   - Render: external renderer binary, arguments, and timeout
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	VoiceVox VoiceVox `toml:"voicevox"`
	Render   Render   `toml:"render"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/visionforge/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a config file was found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// applyEnvOverrides lets environment variables (typically from a .env file
// loaded by the serve command) override connection settings without editing
// the config file.
func (c *Config) applyEnvOverrides() {
	if value := strings.TrimSpace(os.Getenv("VOICEVOX_URL")); value != "" {
		c.VoiceVox.BaseURL = value
	}
	if value := strings.TrimSpace(os.Getenv("VISIONFORGE_API_BIND")); value != "" {
		c.Paths.APIBind = value
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("visionforge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.PublicDir,
		c.AudioDir(),
		c.ImagesDir(),
		c.RenderAssetsDir(),
		filepath.Dir(c.Paths.OutputPath),
		c.Paths.LogDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ScriptPath returns the absolute path of the script store document.
func (c *Config) ScriptPath() string {
	return c.Paths.ScriptPath
}

// AudioDir returns the absolute directory synthesized audio is written to.
func (c *Config) AudioDir() string {
	return filepath.Join(c.Paths.PublicDir, c.Paths.AudioDir)
}

// ImagesDir returns the absolute directory uploaded images are written to.
func (c *Config) ImagesDir() string {
	return filepath.Join(c.Paths.PublicDir, c.Paths.ImagesDir)
}

// RenderAssetsDir returns the absolute directory materialized render assets
// are written to.
func (c *Config) RenderAssetsDir() string {
	return filepath.Join(c.Paths.PublicDir, c.Paths.RenderAssetsDir)
}

// VoiceVoxTimeout returns the synthesis request timeout as a duration.
func (c *Config) VoiceVoxTimeout() time.Duration {
	return time.Duration(c.VoiceVox.TimeoutSeconds) * time.Second
}

// SpeakerProfileFor resolves the synthesis profile for a speaker name.
// Unknown speakers fall back to the default profile.
func (c *Config) SpeakerProfileFor(speaker string) SpeakerProfile {
	if profile, ok := c.VoiceVox.Speakers[speaker]; ok {
		return profile
	}
	return SpeakerProfile{ID: defaultSpeakerID, SpeedScale: 1.0, IntonationScale: 1.0}
}

// ExpandPath resolves ~ and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
