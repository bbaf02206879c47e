package scenesync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"visionforge/internal/actions"
	"visionforge/internal/config"
	"visionforge/internal/logging"
	"visionforge/internal/media"
	"visionforge/internal/script"
	"visionforge/internal/services"
	"visionforge/internal/services/voicevox"
)

const (
	// paddingSeconds is appended to the measured waveform length so scene
	// transitions do not clip the narration tail.
	paddingSeconds = 0.3
	// fallbackDuration stands in when no waveform can be measured, either
	// because synthesis failed or audio generation was disabled.
	fallbackDuration = 5.0
)

// Options controls one save.
type Options struct {
	// GenerateAudio enables synthesis for new or changed scenes.
	GenerateAudio bool
	// SpeedScale multiplies each speaker profile's speed. Zero means 1.0.
	SpeedScale float64
}

// Engine reconciles an incoming edited script against the previous save,
// resynthesizing narration audio where the text changed and persisting the
// result atomically.
type Engine struct {
	cfg    *config.Config
	store  *script.Store
	tts    voicevox.Client
	logger *slog.Logger
}

// NewEngine constructs a sync engine.
func NewEngine(cfg *config.Config, store *script.Store, tts voicevox.Client, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		cfg:    cfg,
		store:  store,
		tts:    tts,
		logger: logging.NewComponentLogger(logger, "scenesync"),
	}
}

// Sync applies the per-scene diff algorithm to the incoming scene list and
// replaces the script store contents with the result. Scenes are processed
// sequentially in input order; a single scene's synthesis failure degrades to
// the fallback duration without failing the save. Store read/write failures
// and structural problems in the incoming list fail the whole call.
func (e *Engine) Sync(ctx context.Context, scenes []script.Scene, opts Options) ([]script.Scene, error) {
	for i := range scenes {
		scenes[i].Normalize()
	}
	if err := script.Validate(scenes); err != nil {
		return nil, err
	}

	previous, err := e.store.Load()
	if err != nil {
		return nil, err
	}
	byID := script.ByID(previous)

	result := make([]script.Scene, 0, len(scenes))
	for _, scene := range scenes {
		var old *script.Scene
		if prev, ok := byID[scene.ID]; ok {
			old = &prev
		}
		result = append(result, e.syncScene(ctx, scene, old, opts))
	}

	if err := e.store.Replace(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) syncScene(ctx context.Context, scene script.Scene, old *script.Scene, opts Options) script.Scene {
	// An explicit action from the editor always wins. Otherwise infer one
	// when the scene is new or its text changed, and inherit the previous
	// save's action when the text is untouched.
	if scene.Action == script.ActionNone {
		if old == nil || scene.Text != old.Text {
			scene.Action = actions.Infer(scene.Text)
		} else {
			scene.Action = old.Action
		}
	}

	if scene.Audio == "" {
		scene.Audio = e.allocateAudioPath()
		scene.Duration = fallbackDuration
	}

	needsUpdate := old == nil || scene.Text != old.Text
	audioPath := filepath.Join(e.cfg.Paths.PublicDir, filepath.FromSlash(scene.Audio))
	audioMissing := !fileExists(audioPath)

	if opts.GenerateAudio && (needsUpdate || audioMissing) {
		scene.Duration = e.synthesize(ctx, scene, audioPath, opts)
		return scene
	}

	if !needsUpdate && old != nil {
		scene.Duration = old.Duration
	}
	return scene
}

// synthesize runs the TTS call for one scene and writes the waveform to
// disk. Any failure is absorbed into the fallback duration so one bad scene
// cannot fail the batch.
func (e *Engine) synthesize(ctx context.Context, scene script.Scene, audioPath string, opts Options) float64 {
	profile := e.cfg.SpeakerProfileFor(scene.Speaker)
	multiplier := opts.SpeedScale
	if multiplier <= 0 {
		multiplier = 1.0
	}

	audio, err := e.tts.Synthesize(ctx, voicevox.Request{
		Text:             scene.Text,
		SpeakerID:        profile.ID,
		SpeedScale:       profile.SpeedScale * multiplier,
		IntonationScale:  profile.IntonationScale,
		PrePhonemeLength: profile.PrePhonemeLength,
	})
	if err != nil {
		e.logger.Warn("synthesis failed, using fallback duration",
			logging.Int("scene_id", scene.ID),
			logging.String("speaker", scene.Speaker),
			logging.Error(err))
		return fallbackDuration
	}

	if err := writeAudio(audioPath, audio); err != nil {
		e.logger.Warn("audio write failed, using fallback duration",
			logging.Int("scene_id", scene.ID),
			logging.String("path", audioPath),
			logging.Error(err))
		return fallbackDuration
	}

	length, err := media.WAVDuration(audioPath)
	if err != nil {
		e.logger.Warn("waveform measurement failed, using fallback duration",
			logging.Int("scene_id", scene.ID),
			logging.String("path", audioPath),
			logging.Error(err))
		return fallbackDuration
	}
	return length + paddingSeconds
}

// allocateAudioPath returns a fresh public-relative waveform path.
func (e *Engine) allocateAudioPath() string {
	name := fmt.Sprintf("%s.wav", uuid.NewString())
	return filepath.ToSlash(filepath.Join(e.cfg.Paths.AudioDir, name))
}

func writeAudio(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "scenesync", "write_audio", "ensure directory", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "scenesync", "write_audio", "write waveform", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
