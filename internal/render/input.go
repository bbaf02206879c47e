package render

import "encoding/json"

// ImageLayer is one positioned image with its own transform.
type ImageLayer struct {
	ID       string  `json:"id"`
	Src      string  `json:"src"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
}

// Block is one timed beat of the composition.
type Block struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Speaker  string  `json:"speaker"`
	Duration float64 `json:"durationInSeconds"`

	// Legacy single-image fields, kept for older editor payloads.
	Image         string  `json:"image,omitempty"`
	ImageX        float64 `json:"imageX,omitempty"`
	ImageY        float64 `json:"imageY,omitempty"`
	ImageScale    float64 `json:"imageScale,omitempty"`
	ImageRotation float64 `json:"imageRotation,omitempty"`

	Images []ImageLayer `json:"images,omitempty"`
	Audio  string       `json:"audio,omitempty"`
	Action string       `json:"action,omitempty"`
}

// Input is the render-input document handed to the external renderer. The
// image-span metadata is opaque to the orchestrator and passes through to
// the renderer verbatim.
type Input struct {
	Blocks     []Block           `json:"blocks"`
	ImageSpans []json.RawMessage `json:"imageSpans,omitempty"`
}
