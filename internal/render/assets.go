package render

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"visionforge/internal/logging"
)

const dataURIPrefix = "data:"

var extensionsByMIME = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/jpg":     ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// Materializer extracts inline data-URI images from a render input into
// files under the render-assets directory, rewriting references to
// public-relative file paths. It knows nothing about rendering semantics.
type Materializer struct {
	publicDir string
	assetsDir string
	logger    *slog.Logger
}

// NewMaterializer builds a materializer writing beneath publicDir into the
// assetsDir subdirectory.
func NewMaterializer(publicDir, assetsDir string, logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Materializer{
		publicDir: publicDir,
		assetsDir: assetsDir,
		logger:    logging.NewComponentLogger(logger, "render"),
	}
}

// Materialize rewrites every inline image in the input in place. A malformed
// payload skips that one image and the rest proceed.
func (m *Materializer) Materialize(input *Input) error {
	if input == nil {
		return nil
	}
	for i := range input.Blocks {
		block := &input.Blocks[i]
		if path, ok := m.materializeOne(block.Image); ok {
			block.Image = path
		}
		for j := range block.Images {
			if path, ok := m.materializeOne(block.Images[j].Src); ok {
				block.Images[j].Src = path
			}
		}
	}
	return nil
}

// materializeOne decodes a single data URI and writes it to a unique file,
// returning the public-relative path. Non-inline references are left alone.
func (m *Materializer) materializeOne(src string) (string, bool) {
	if !strings.HasPrefix(src, dataURIPrefix) {
		return "", false
	}

	payload, ext := splitDataURI(src)
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		m.logger.Warn("inline image decode failed, keeping reference",
			logging.Error(err))
		return "", false
	}

	name := fmt.Sprintf("%s%s", uuid.NewString(), ext)
	absPath := filepath.Join(m.publicDir, m.assetsDir, name)
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		m.logger.Warn("render assets directory unavailable, keeping reference",
			logging.Error(err))
		return "", false
	}
	if err := os.WriteFile(absPath, decoded, 0o644); err != nil {
		m.logger.Warn("inline image write failed, keeping reference",
			logging.String("path", absPath),
			logging.Error(err))
		return "", false
	}
	return filepath.ToSlash(filepath.Join(m.assetsDir, name)), true
}

// splitDataURI separates the base64 payload from the URI header and maps the
// declared media type to a file extension. Malformed headers fall back to
// PNG rather than failing the image.
func splitDataURI(src string) (payload, ext string) {
	ext = ".png"
	rest := strings.TrimPrefix(src, dataURIPrefix)
	header, payload, found := strings.Cut(rest, ",")
	if !found {
		return rest, ext
	}
	mime, _, _ := strings.Cut(header, ";")
	if mapped, ok := extensionsByMIME[strings.ToLower(strings.TrimSpace(mime))]; ok {
		ext = mapped
	}
	return payload, ext
}
