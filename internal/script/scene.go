package script

import (
	"fmt"

	"visionforge/internal/services"
)

// ActionNone is the sentinel for a scene without an assigned action. The
// sync engine treats it as "infer one for me".
const ActionNone = "none"

// Scene is one narrated beat of the video.
//
// Audio and Image are paths relative to the public asset root. Duration is
// derived from the synthesized waveform plus a fixed padding; clients never
// compute it.
type Scene struct {
	ID       int     `json:"id"`
	Speaker  string  `json:"speaker"`
	Text     string  `json:"text"`
	Emotion  string  `json:"emotion"`
	Action   string  `json:"action"`
	Audio    string  `json:"audio"`
	Image    string  `json:"image,omitempty"`
	Duration float64 `json:"duration"`
}

// Normalize fills unset sentinel fields.
func (s *Scene) Normalize() {
	if s.Action == "" {
		s.Action = ActionNone
	}
}

// Validate checks a scene list for structural problems. Scene ids are the
// identity key for diffing, so duplicates are rejected rather than letting
// first-match lookups silently win.
func Validate(scenes []Scene) error {
	seen := make(map[int]struct{}, len(scenes))
	for _, scene := range scenes {
		if _, ok := seen[scene.ID]; ok {
			return services.Wrap(services.ErrValidation, "script", "validate",
				fmt.Sprintf("duplicate scene id %d", scene.ID), nil)
		}
		seen[scene.ID] = struct{}{}
	}
	return nil
}

// ByID builds an id lookup for diffing against a previous save.
func ByID(scenes []Scene) map[int]Scene {
	index := make(map[int]Scene, len(scenes))
	for _, scene := range scenes {
		index[scene.ID] = scene
	}
	return index
}
