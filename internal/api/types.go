package api

import "visionforge/internal/script"

// SaveRequest is the script save payload: a full replacement scene list plus
// the synthesis flags.
type SaveRequest struct {
	Scenes        []script.Scene `json:"scenes"`
	GenerateAudio bool           `json:"generateAudio"`
	SpeedScale    float64        `json:"speedScale,omitempty"`
}

// SaveResponse reports a completed save with the persisted scene list.
type SaveResponse struct {
	Status string         `json:"status"`
	Scenes []script.Scene `json:"scenes"`
}

// UploadResponse reports a stored image upload.
type UploadResponse struct {
	Status string `json:"status"`
	URL    string `json:"url"`
}

// RenderAccepted acknowledges an admitted render job.
type RenderAccepted struct {
	Status string `json:"status"`
}

// RenderStatus mirrors the orchestrator state snapshot.
type RenderStatus struct {
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Error    string `json:"error,omitempty"`
}

// RenderJob is one journaled render attempt.
type RenderJob struct {
	ID         int64  `json:"id"`
	Status     string `json:"status"`
	Progress   int    `json:"progress"`
	Error      string `json:"error,omitempty"`
	StartedAt  string `json:"startedAt,omitempty"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

// RenderHistoryResponse lists journaled render attempts, newest first.
type RenderHistoryResponse struct {
	Jobs []RenderJob `json:"jobs"`
}

// DaemonStatus summarizes daemon runtime information.
type DaemonStatus struct {
	Running      bool         `json:"running"`
	PID          int          `json:"pid"`
	ScriptPath   string       `json:"scriptPath"`
	SceneCount   int          `json:"sceneCount"`
	LockFilePath string       `json:"lockFilePath"`
	Render       RenderStatus `json:"render"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
