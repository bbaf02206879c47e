package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateVoiceVox(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.PublicDir == "" {
		return errors.New("paths.public_dir must be set")
	}
	if c.Paths.APIBind == "" {
		return errors.New("paths.api_bind must be set")
	}
	for key, value := range map[string]string{
		"paths.audio_dir":         c.Paths.AudioDir,
		"paths.images_dir":        c.Paths.ImagesDir,
		"paths.render_assets_dir": c.Paths.RenderAssetsDir,
	} {
		if filepath.IsAbs(value) {
			return fmt.Errorf("%s must be relative to paths.public_dir", key)
		}
		if value == ".." || strings.HasPrefix(value, "../") {
			return fmt.Errorf("%s must not escape paths.public_dir", key)
		}
	}
	return nil
}

func (c *Config) validateVoiceVox() error {
	parsed, err := url.Parse(c.VoiceVox.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("voicevox.base_url is not a valid URL: %q", c.VoiceVox.BaseURL)
	}
	if c.VoiceVox.TimeoutSeconds <= 0 {
		return errors.New("voicevox.timeout_seconds must be positive")
	}
	for name, profile := range c.VoiceVox.Speakers {
		if profile.ID < 0 {
			return fmt.Errorf("voicevox.speakers.%s.id must not be negative", name)
		}
		if profile.SpeedScale <= 0 {
			return fmt.Errorf("voicevox.speakers.%s.speed_scale must be positive", name)
		}
		if profile.PrePhonemeLength < 0 {
			return fmt.Errorf("voicevox.speakers.%s.pre_phoneme_length must not be negative", name)
		}
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.Binary == "" {
		return errors.New("render.binary must be set")
	}
	if c.Render.TimeoutSeconds <= 0 {
		return errors.New("render.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
