package history

import (
	"context"
	"path/filepath"
	"testing"

	"visionforge/internal/config"
	"visionforge/internal/render"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	base := t.TempDir()
	cfg := &config.Config{
		Paths: config.Paths{
			PublicDir:       filepath.Join(base, "public"),
			RenderAssetsDir: "render_assets",
			OutputPath:      filepath.Join(base, "public", "out", "video.mp4"),
			LogDir:          filepath.Join(base, "logs"),
		},
	}
	store, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.RecordStart(ctx, "/tmp/input.json", "/tmp/video.mp4")
	if err != nil {
		t.Fatalf("RecordStart returned error: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero job id")
	}

	if err := store.RecordFinish(ctx, id, render.State{Status: render.StatusDone, Progress: 100}); err != nil {
		t.Fatalf("RecordFinish returned error: %v", err)
	}

	jobs, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	job := jobs[0]
	if job.Status != string(render.StatusDone) || job.Progress != 100 {
		t.Fatalf("unexpected job record: %+v", job)
	}
	if job.StartedAt.IsZero() || job.FinishedAt.IsZero() {
		t.Fatalf("expected timestamps to be recorded, got %+v", job)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.RecordStart(ctx, "/tmp/a.json", "/tmp/a.mp4")
	if err != nil {
		t.Fatalf("RecordStart returned error: %v", err)
	}
	second, err := store.RecordStart(ctx, "/tmp/b.json", "/tmp/b.mp4")
	if err != nil {
		t.Fatalf("RecordStart returned error: %v", err)
	}
	if err := store.RecordFinish(ctx, first, render.State{Status: render.StatusError, Progress: 40, Error: "exit status 1"}); err != nil {
		t.Fatalf("RecordFinish returned error: %v", err)
	}

	jobs, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != second || jobs[1].ID != first {
		t.Fatalf("expected newest first ordering, got %d then %d", jobs[0].ID, jobs[1].ID)
	}
	if jobs[1].Error != "exit status 1" {
		t.Fatalf("expected failure message preserved, got %q", jobs[1].Error)
	}
}

func TestListLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.RecordStart(ctx, "/tmp/in.json", "/tmp/out.mp4"); err != nil {
			t.Fatalf("RecordStart returned error: %v", err)
		}
	}

	jobs, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected limit of 3 jobs, got %d", len(jobs))
	}
}
