package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeVoiceVox()
	c.normalizeRender()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.PublicDir) == "" {
		c.Paths.PublicDir = defaultPublicDir
	}
	if c.Paths.PublicDir, err = expandPath(c.Paths.PublicDir); err != nil {
		return fmt.Errorf("paths.public_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	// Relative asset dirs stay relative to the public root; the script
	// store refers to audio and image files by these relative paths.
	c.Paths.AudioDir = cleanRelative(c.Paths.AudioDir, defaultAudioDir)
	c.Paths.ImagesDir = cleanRelative(c.Paths.ImagesDir, defaultImagesDir)
	c.Paths.RenderAssetsDir = cleanRelative(c.Paths.RenderAssetsDir, defaultRenderAssetsDir)

	if strings.TrimSpace(c.Paths.ScriptPath) == "" {
		c.Paths.ScriptPath = filepath.Join(c.Paths.PublicDir, "script.json")
	} else if c.Paths.ScriptPath, err = expandPath(c.Paths.ScriptPath); err != nil {
		return fmt.Errorf("paths.script_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.RenderInputPath) == "" {
		c.Paths.RenderInputPath = filepath.Join(c.Paths.PublicDir, "render_input.json")
	} else if c.Paths.RenderInputPath, err = expandPath(c.Paths.RenderInputPath); err != nil {
		return fmt.Errorf("paths.render_input_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputPath) == "" {
		c.Paths.OutputPath = filepath.Join(c.Paths.PublicDir, "out", "video.mp4")
	} else if c.Paths.OutputPath, err = expandPath(c.Paths.OutputPath); err != nil {
		return fmt.Errorf("paths.output_path: %w", err)
	}

	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeVoiceVox() {
	c.VoiceVox.BaseURL = strings.TrimRight(strings.TrimSpace(c.VoiceVox.BaseURL), "/")
	if c.VoiceVox.BaseURL == "" {
		c.VoiceVox.BaseURL = defaultVoiceVoxURL
	}
	if c.VoiceVox.TimeoutSeconds <= 0 {
		c.VoiceVox.TimeoutSeconds = defaultVoiceVoxTimeout
	}
	if len(c.VoiceVox.Speakers) == 0 {
		c.VoiceVox.Speakers = defaultSpeakers()
	}
	for name, profile := range c.VoiceVox.Speakers {
		if profile.SpeedScale <= 0 {
			profile.SpeedScale = 1.0
		}
		if profile.IntonationScale <= 0 {
			profile.IntonationScale = 1.0
		}
		c.VoiceVox.Speakers[name] = profile
	}
}

func (c *Config) normalizeRender() {
	c.Render.Binary = strings.TrimSpace(c.Render.Binary)
	if c.Render.Binary == "" {
		c.Render.Binary = defaultRenderBinary
		if len(c.Render.Args) == 0 {
			c.Render.Args = defaultRenderArgs()
		}
	}
	if c.Render.TimeoutSeconds <= 0 {
		c.Render.TimeoutSeconds = defaultRenderTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func cleanRelative(value, fallback string) string {
	value = strings.TrimRight(strings.TrimSpace(value), "/")
	if value == "" {
		return fallback
	}
	return filepath.Clean(value)
}
