package render

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func dataURI(mime string, payload []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

func TestMaterializeRoundTrip(t *testing.T) {
	publicDir := t.TempDir()
	m := NewMaterializer(publicDir, "render_assets", nil)

	payload := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x01, 0x02}
	input := &Input{Blocks: []Block{{ID: "b1", Image: dataURI("image/png", payload)}}}

	if err := m.Materialize(input); err != nil {
		t.Fatalf("Materialize returned error: %v", err)
	}

	ref := input.Blocks[0].Image
	if !strings.HasPrefix(ref, "render_assets/") || !strings.HasSuffix(ref, ".png") {
		t.Fatalf("unexpected rewritten reference %q", ref)
	}

	written, err := os.ReadFile(filepath.Join(publicDir, filepath.FromSlash(ref)))
	if err != nil {
		t.Fatalf("read materialized asset: %v", err)
	}
	if !bytes.Equal(written, payload) {
		t.Fatal("materialized content differs from decoded payload")
	}
}

func TestMaterializeLayeredImages(t *testing.T) {
	publicDir := t.TempDir()
	m := NewMaterializer(publicDir, "render_assets", nil)

	input := &Input{Blocks: []Block{{
		ID: "b1",
		Images: []ImageLayer{
			{ID: "l1", Src: dataURI("image/jpeg", []byte("jpeg-bytes"))},
			{ID: "l2", Src: "images/existing.png"},
		},
	}}}

	if err := m.Materialize(input); err != nil {
		t.Fatalf("Materialize returned error: %v", err)
	}

	if !strings.HasSuffix(input.Blocks[0].Images[0].Src, ".jpg") {
		t.Fatalf("expected jpeg layer rewritten to .jpg file, got %q", input.Blocks[0].Images[0].Src)
	}
	if input.Blocks[0].Images[1].Src != "images/existing.png" {
		t.Fatalf("expected plain file reference untouched, got %q", input.Blocks[0].Images[1].Src)
	}
}

func TestMaterializeUnknownMIMEFallsBackToPNG(t *testing.T) {
	publicDir := t.TempDir()
	m := NewMaterializer(publicDir, "render_assets", nil)

	input := &Input{Blocks: []Block{{ID: "b1", Image: dataURI("application/x-mystery", []byte("payload"))}}}
	if err := m.Materialize(input); err != nil {
		t.Fatalf("Materialize returned error: %v", err)
	}
	if !strings.HasSuffix(input.Blocks[0].Image, ".png") {
		t.Fatalf("expected png fallback extension, got %q", input.Blocks[0].Image)
	}
}

func TestMaterializeBadPayloadSkipsImage(t *testing.T) {
	publicDir := t.TempDir()
	m := NewMaterializer(publicDir, "render_assets", nil)

	good := dataURI("image/png", []byte("good"))
	input := &Input{Blocks: []Block{
		{ID: "b1", Image: "data:image/png;base64,not!!valid!!base64"},
		{ID: "b2", Image: good},
	}}

	if err := m.Materialize(input); err != nil {
		t.Fatalf("Materialize returned error: %v", err)
	}

	if !strings.HasPrefix(input.Blocks[0].Image, "data:") {
		t.Fatalf("expected undecodable image left as-is, got %q", input.Blocks[0].Image)
	}
	if strings.HasPrefix(input.Blocks[1].Image, "data:") {
		t.Fatal("expected sibling image to still be materialized")
	}
}
