package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"visionforge/internal/config"
	"visionforge/internal/history"
	"visionforge/internal/logging"
	"visionforge/internal/render"
	"visionforge/internal/scenesync"
	"visionforge/internal/script"
	"visionforge/internal/services/renderer"
	"visionforge/internal/services/voicevox"
)

// Daemon owns the script store, sync engine, and render orchestrator, and
// enforces single-instance execution via a file lock.
type Daemon struct {
	cfg          *config.Config
	logger       *slog.Logger
	store        *script.Store
	engine       *scenesync.Engine
	orchestrator *render.Orchestrator
	journal      *history.Store

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	api     *apiServer
}

// Option overrides a daemon collaborator, mainly for tests.
type Option func(*options)

type options struct {
	synthesizer voicevox.Client
	renderer    renderer.Client
}

// WithSynthesizer substitutes the speech synthesis client.
func WithSynthesizer(client voicevox.Client) Option {
	return func(o *options) {
		if client != nil {
			o.synthesizer = client
		}
	}
}

// WithRenderer substitutes the renderer subprocess client.
func WithRenderer(client renderer.Client) Option {
	return func(o *options) {
		if client != nil {
			o.renderer = client
		}
	}
}

// New constructs a daemon with initialized collaborators.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	resolved := options{}
	for _, opt := range opts {
		opt(&resolved)
	}
	if resolved.synthesizer == nil {
		resolved.synthesizer = voicevox.NewHTTP(
			voicevox.WithBaseURL(cfg.VoiceVox.BaseURL),
			voicevox.WithTimeout(cfg.VoiceVoxTimeout()),
		)
	}
	if resolved.renderer == nil {
		resolved.renderer = renderer.NewCLI(
			renderer.WithBinary(cfg.Render.Binary),
			renderer.WithArgs(cfg.Render.Args),
			renderer.WithWorkDir(cfg.Render.WorkDir),
			renderer.WithLogger(logger),
		)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	journal, err := history.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open render history: %w", err)
	}

	store := script.NewStore(cfg.ScriptPath())
	lockPath := filepath.Join(cfg.Paths.LogDir, "visionforge.lock")

	d := &Daemon{
		cfg:          cfg,
		logger:       logging.NewComponentLogger(logger, "daemon"),
		store:        store,
		engine:       scenesync.NewEngine(cfg, store, resolved.synthesizer, logger),
		orchestrator: render.NewOrchestrator(cfg, resolved.renderer, journal, logger),
		journal:      journal,
		lockPath:     lockPath,
		lock:         flock.New(lockPath),
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the single-instance lock and brings up the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another visionforge daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.api.start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}
	d.cancel = cancel

	d.running.Store(true)
	d.logger.Info("daemon started",
		logging.String("lock", d.lockPath),
		logging.String("script", d.cfg.ScriptPath()))
	return nil
}

// Stop shuts down the API server and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.journal != nil {
		return d.journal.Close()
	}
	return nil
}

// Addr returns the listening address once the API server is up.
func (d *Daemon) Addr() string {
	return d.api.addr()
}

// Status reports runtime information.
func (d *Daemon) Status() Status {
	sceneCount := 0
	if scenes, err := d.store.Load(); err == nil {
		sceneCount = len(scenes)
	}
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		ScriptPath:   d.cfg.ScriptPath(),
		SceneCount:   sceneCount,
		LockFilePath: d.lockPath,
		Render:       d.orchestrator.Status(),
	}
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	ScriptPath   string
	SceneCount   int
	LockFilePath string
	Render       render.State
}
