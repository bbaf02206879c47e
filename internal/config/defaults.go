package config

const (
	defaultPublicDir       = "~/.local/share/visionforge/public"
	defaultLogDir          = "~/.local/share/visionforge/logs"
	defaultAudioDir        = "audio"
	defaultImagesDir       = "images"
	defaultRenderAssetsDir = "render_assets"
	defaultAPIBind         = "127.0.0.1:8787"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"

	defaultVoiceVoxURL     = "http://127.0.0.1:50021"
	defaultVoiceVoxTimeout = 120

	defaultRenderBinary  = "npx"
	defaultRenderTimeout = 3600

	// defaultSpeakerID is the VOICEVOX speaker used when a scene names a
	// speaker with no configured profile.
	defaultSpeakerID = 10
)

func defaultRenderArgs() []string {
	return []string{"remotion", "render", "Shorts"}
}

func defaultSpeakers() map[string]SpeakerProfile {
	return map[string]SpeakerProfile{
		"kanon":    {ID: 10, SpeedScale: 1.15, IntonationScale: 1.2, PrePhonemeLength: 0.1},
		"zundamon": {ID: 3, SpeedScale: 0.95, IntonationScale: 1.0},
		"metan":    {ID: 2, SpeedScale: 1.0, IntonationScale: 1.0},
		"tsumugi":  {ID: 8, SpeedScale: 1.0, IntonationScale: 1.0},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PublicDir:       defaultPublicDir,
			AudioDir:        defaultAudioDir,
			ImagesDir:       defaultImagesDir,
			RenderAssetsDir: defaultRenderAssetsDir,
			LogDir:          defaultLogDir,
			APIBind:         defaultAPIBind,
		},
		VoiceVox: VoiceVox{
			BaseURL:        defaultVoiceVoxURL,
			TimeoutSeconds: defaultVoiceVoxTimeout,
			Speakers:       defaultSpeakers(),
		},
		Render: Render{
			Binary:         defaultRenderBinary,
			Args:           defaultRenderArgs(),
			TimeoutSeconds: defaultRenderTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
