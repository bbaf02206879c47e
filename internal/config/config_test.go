package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"visionforge/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("VOICEVOX_URL", "")
	t.Setenv("VISIONFORGE_API_BIND", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantPublic := filepath.Join(tempHome, ".local", "share", "visionforge", "public")
	if cfg.Paths.PublicDir != wantPublic {
		t.Fatalf("unexpected public dir: got %q want %q", cfg.Paths.PublicDir, wantPublic)
	}
	if cfg.ScriptPath() != filepath.Join(wantPublic, "script.json") {
		t.Fatalf("unexpected script path: %q", cfg.ScriptPath())
	}
	if cfg.AudioDir() != filepath.Join(wantPublic, "audio") {
		t.Fatalf("unexpected audio dir: %q", cfg.AudioDir())
	}
	if cfg.Paths.OutputPath != filepath.Join(wantPublic, "out", "video.mp4") {
		t.Fatalf("unexpected output path: %q", cfg.Paths.OutputPath)
	}
	if cfg.Paths.APIBind != "127.0.0.1:8787" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.VoiceVox.BaseURL != "http://127.0.0.1:50021" {
		t.Fatalf("unexpected voicevox url: %q", cfg.VoiceVox.BaseURL)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.AudioDir(), cfg.ImagesDir(), cfg.RenderAssetsDir(), cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be a directory", dir)
		}
	}
}

func TestLoadParsesFileAndOverrides(t *testing.T) {
	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`public_dir = "` + filepath.Join(tempDir, "public") + `"`,
		`api_bind = "127.0.0.1:9999"`,
		"",
		"[voicevox]",
		`base_url = "http://voicevox.local:50021/"`,
		"",
		"[voicevox.speakers.sashu]",
		"id = 21",
		"speed_scale = 1.05",
		"",
		"[render]",
		`binary = "renderctl"`,
		"timeout_seconds = 60",
	}, "\n")
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Paths.APIBind != "127.0.0.1:9999" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.VoiceVox.BaseURL != "http://voicevox.local:50021" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.VoiceVox.BaseURL)
	}
	profile := cfg.SpeakerProfileFor("sashu")
	if profile.ID != 21 || profile.SpeedScale != 1.05 {
		t.Fatalf("unexpected sashu profile: %+v", profile)
	}
	if profile.IntonationScale != 1.0 {
		t.Fatalf("expected intonation default 1.0, got %f", profile.IntonationScale)
	}
	if cfg.Render.Binary != "renderctl" {
		t.Fatalf("unexpected render binary: %q", cfg.Render.Binary)
	}
}

func TestSpeakerProfileForUnknownFallsBack(t *testing.T) {
	cfg := config.Default()
	profile := cfg.SpeakerProfileFor("nobody")
	if profile.ID != 10 {
		t.Fatalf("expected fallback speaker id 10, got %d", profile.ID)
	}
	if profile.SpeedScale != 1.0 {
		t.Fatalf("expected neutral speed for fallback, got %f", profile.SpeedScale)
	}
}

func TestEnvOverridesWin(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("VOICEVOX_URL", "http://10.0.0.5:50021")
	t.Setenv("VISIONFORGE_API_BIND", "0.0.0.0:8080")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.VoiceVox.BaseURL != "http://10.0.0.5:50021" {
		t.Fatalf("expected env override for voicevox url, got %q", cfg.VoiceVox.BaseURL)
	}
	if cfg.Paths.APIBind != "0.0.0.0:8080" {
		t.Fatalf("expected env override for api bind, got %q", cfg.Paths.APIBind)
	}
}

func TestValidateRejectsAbsoluteAssetDir(t *testing.T) {
	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`audio_dir = "/etc/audio"`,
	}, "\n")
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := config.Load(cfgPath); err == nil {
		t.Fatal("expected validation error for absolute audio_dir")
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for log format")
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(content), "[voicevox]") {
		t.Fatalf("expected voicevox section in sample, got %q", content)
	}
}
