package render

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"visionforge/internal/config"
	"visionforge/internal/logging"
	"visionforge/internal/services"
	"visionforge/internal/services/renderer"
)

// Journal records render job outcomes for later inspection.
type Journal interface {
	RecordStart(ctx context.Context, inputPath, outputPath string) (int64, error)
	RecordFinish(ctx context.Context, id int64, state State) error
}

// Orchestrator guards admission to the external render subprocess. At most
// one render runs at a time; a second start while one is active is rejected
// synchronously. State is volatile and resets to idle on process restart.
type Orchestrator struct {
	cfg          *config.Config
	client       renderer.Client
	materializer *Materializer
	tracker      *stateTracker
	journal      Journal
	logger       *slog.Logger
	timeout      time.Duration
}

// NewOrchestrator wires the orchestrator. A nil journal disables history
// recording.
func NewOrchestrator(cfg *config.Config, client renderer.Client, journal Journal, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := time.Duration(cfg.Render.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Hour
	}
	return &Orchestrator{
		cfg:          cfg,
		client:       client,
		materializer: NewMaterializer(cfg.Paths.PublicDir, cfg.Paths.RenderAssetsDir, logger),
		tracker:      newStateTracker(),
		journal:      journal,
		logger:       logging.NewComponentLogger(logger, "render"),
		timeout:      timeout,
	}
}

// Start admits one render job. Inline images are materialized and the
// render-input document written synchronously; the subprocess then runs in
// the background and the call returns immediately. A render already in
// flight yields a conflict error without side effects.
func (o *Orchestrator) Start(input *Input) error {
	if !o.tracker.BeginRendering() {
		return services.Wrap(services.ErrConflict, "render", "start", "render already in progress", nil)
	}

	// Journal the attempt before preparation so launch-phase failures are
	// recorded too.
	jobID := o.recordStart()

	if err := o.prepare(input); err != nil {
		o.tracker.Finish(err)
		o.recordFinish(jobID)
		return err
	}

	go o.run(jobID)
	return nil
}

// prepare materializes inline assets and writes the render-input document.
func (o *Orchestrator) prepare(input *Input) error {
	if input == nil {
		input = &Input{}
	}
	if err := o.materializer.Materialize(input); err != nil {
		return err
	}

	data, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrTransient, "render", "start", "marshal render input", err)
	}
	inputPath := o.cfg.Paths.RenderInputPath
	if err := os.MkdirAll(filepath.Dir(inputPath), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "render", "start", "ensure render input directory", err)
	}
	if err := os.WriteFile(inputPath, data, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "render", "start", "write render input", err)
	}
	return nil
}

// run is the single background worker for one render job.
func (o *Orchestrator) run(jobID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	outputPath := o.cfg.Paths.OutputPath
	o.logger.Info("render started",
		logging.String("input", o.cfg.Paths.RenderInputPath),
		logging.String("output", outputPath))

	err := o.client.Render(ctx, o.cfg.Paths.RenderInputPath, outputPath, o.tracker.SetProgress)
	if err == nil && !artifactExists(outputPath) {
		err = services.Wrap(services.ErrExternalTool, "render", "run",
			"renderer exited cleanly but produced no output artifact", nil)
	}

	o.tracker.Finish(err)
	o.recordFinish(jobID)

	if err != nil {
		o.logger.Error("render failed", logging.Error(err))
		return
	}
	o.logger.Info("render complete", logging.String("output", outputPath))
}

// Status returns a consistent snapshot of the current render state.
func (o *Orchestrator) Status() State {
	return o.tracker.Snapshot()
}

// OutputPath returns the fixed output artifact location.
func (o *Orchestrator) OutputPath() string {
	return o.cfg.Paths.OutputPath
}

// OpenOutput opens the finished artifact for streaming. While a render is in
// flight the artifact on disk may be mid-write or left over from an earlier
// run, so the call reports not-found instead of serving partial bytes.
func (o *Orchestrator) OpenOutput() (*os.File, error) {
	if o.tracker.Snapshot().Status == StatusRendering {
		return nil, services.Wrap(services.ErrNotFound, "render", "fetch_output", "render still in progress", nil)
	}
	file, err := os.Open(o.cfg.Paths.OutputPath)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "render", "fetch_output", "no output artifact", err)
	}
	return file, nil
}

func (o *Orchestrator) recordStart() int64 {
	if o.journal == nil {
		return 0
	}
	id, err := o.journal.RecordStart(context.Background(), o.cfg.Paths.RenderInputPath, o.cfg.Paths.OutputPath)
	if err != nil {
		o.logger.Warn("render history record failed", logging.Error(err))
		return 0
	}
	return id
}

func (o *Orchestrator) recordFinish(jobID int64) {
	if o.journal == nil || jobID == 0 {
		return
	}
	if err := o.journal.RecordFinish(context.Background(), jobID, o.tracker.Snapshot()); err != nil {
		o.logger.Warn("render history record failed", logging.Error(err))
	}
}

func artifactExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
