package testsupport

import (
	"path/filepath"
	"testing"

	"visionforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.PublicDir = filepath.Join(base, "public")
	cfg.Paths.ScriptPath = filepath.Join(base, "public", "script.json")
	cfg.Paths.RenderInputPath = filepath.Join(base, "public", "render_input.json")
	cfg.Paths.OutputPath = filepath.Join(base, "out", "video.mp4")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Render.TimeoutSeconds = 30

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSpeaker registers or overrides a speaker profile on the test config.
func WithSpeaker(name string, profile config.SpeakerProfile) ConfigOption {
	return func(cfg *config.Config) {
		cfg.VoiceVox.Speakers[name] = profile
	}
}
