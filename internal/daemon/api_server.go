package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"visionforge/internal/api"
	"visionforge/internal/config"
	"visionforge/internal/logging"
	"visionforge/internal/render"
	"visionforge/internal/scenesync"
	"visionforge/internal/script"
	"visionforge/internal/services"
)

const maxUploadBytes = 32 << 20

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:   strings.TrimSpace(cfg.Paths.APIBind),
		logger: logging.NewComponentLogger(logger, "api-server"),
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/script", srv.handleScript)
	mux.HandleFunc("/api/save", srv.handleSave)
	mux.HandleFunc("/api/upload_image", srv.handleUploadImage)
	mux.HandleFunc("/api/render", srv.handleRenderStart)
	mux.HandleFunc("/api/render/status", srv.handleRenderStatus)
	mux.HandleFunc("/api/render/output", srv.handleRenderOutput)
	mux.HandleFunc("/api/render/history", srv.handleRenderHistory)
	mux.HandleFunc("/api/status", srv.handleStatus)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Minute,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleScript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	scenes, err := s.daemon.store.Load()
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, scenes)
}

func (s *apiServer) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req api.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid save payload")
		return
	}
	if req.Scenes == nil {
		req.Scenes = []script.Scene{}
	}

	scenes, err := s.daemon.engine.Sync(r.Context(), req.Scenes, scenesync.Options{
		GenerateAudio: req.GenerateAudio,
		SpeedScale:    req.SpeedScale,
	})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SaveResponse{Status: "success", Scenes: scenes})
}

func (s *apiServer) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	url, err := s.storeUpload(file, header.Filename)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.UploadResponse{Status: "success", URL: url})
}

func (s *apiServer) handleRenderStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var input render.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid render input")
		return
	}

	if err := s.daemon.orchestrator.Start(&input); err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, api.RenderAccepted{Status: "started"})
}

func (s *apiServer) handleRenderStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	state := s.daemon.orchestrator.Status()
	s.writeJSON(w, http.StatusOK, api.RenderStatus{
		Status:   string(state.Status),
		Progress: state.Progress,
		Error:    state.Error,
	})
}

func (s *apiServer) handleRenderOutput(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	file, err := s.daemon.orchestrator.OpenOutput()
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "video/mp4")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, file); err != nil {
		s.logger.Warn("output stream interrupted", logging.Error(err))
	}
}

func (s *apiServer) handleRenderHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	jobs, err := s.daemon.journal.List(r.Context(), limit)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	payload := api.RenderHistoryResponse{Jobs: make([]api.RenderJob, 0, len(jobs))}
	for _, job := range jobs {
		entry := api.RenderJob{
			ID:       job.ID,
			Status:   job.Status,
			Progress: job.Progress,
			Error:    job.Error,
		}
		if !job.StartedAt.IsZero() {
			entry.StartedAt = job.StartedAt.Format(time.RFC3339)
		}
		if !job.FinishedAt.IsZero() {
			entry.FinishedAt = job.FinishedAt.Format(time.RFC3339)
		}
		payload.Jobs = append(payload.Jobs, entry)
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status()
	s.writeJSON(w, http.StatusOK, api.DaemonStatus{
		Running:      status.Running,
		PID:          status.PID,
		ScriptPath:   status.ScriptPath,
		SceneCount:   status.SceneCount,
		LockFilePath: status.LockFilePath,
		Render: api.RenderStatus{
			Status:   string(status.Render.Status),
			Progress: status.Render.Progress,
			Error:    status.Render.Error,
		},
	})
}

// storeUpload writes an uploaded image under the images directory with a
// fresh name, keeping only the original extension.
func (s *apiServer) storeUpload(file io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	name := uuid.NewString() + ext
	absPath := filepath.Join(s.daemon.cfg.ImagesDir(), name)

	if err := writeStream(absPath, file); err != nil {
		return "", err
	}
	return filepath.ToSlash(filepath.Join(s.daemon.cfg.Paths.ImagesDir, name)), nil
}

func writeStream(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "api-server", "upload", "ensure directory", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return services.Wrap(services.ErrTransient, "api-server", "upload", "create file", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return services.Wrap(services.ErrTransient, "api-server", "upload", "write file", err)
	}
	return nil
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

// writeFailure maps a service error onto its HTTP status.
func (s *apiServer) writeFailure(w http.ResponseWriter, err error) {
	s.writeError(w, services.HTTPStatus(err), err.Error())
}
