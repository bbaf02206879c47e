package media_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"visionforge/internal/media"
)

func writeWAV(t *testing.T, path string, sampleRate, samples int) {
	t.Helper()

	const (
		channels      = 1
		bitsPerSample = 16
	)
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign
	dataSize := samples * blockAlign

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize)) //nolint:errcheck
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))            //nolint:errcheck
	binary.Write(&buf, binary.LittleEndian, uint16(1))             //nolint:errcheck
	binary.Write(&buf, binary.LittleEndian, uint16(channels))      //nolint:errcheck
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))    //nolint:errcheck
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))      //nolint:errcheck
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))    //nolint:errcheck
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample)) //nolint:errcheck
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize)) //nolint:errcheck
	buf.Write(make([]byte, dataSize))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write wav: %v", err)
	}
}

func TestWAVDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 24000, 36000)

	got, err := media.WAVDuration(path)
	if err != nil {
		t.Fatalf("WAVDuration returned error: %v", err)
	}
	if math.Abs(got-1.5) > 1e-9 {
		t.Fatalf("expected 1.5s, got %f", got)
	}
}

func TestWAVDurationMissingFile(t *testing.T) {
	if _, err := media.WAVDuration(filepath.Join(t.TempDir(), "absent.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWAVDurationRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	if err := os.WriteFile(path, []byte("this is not audio at all"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := media.WAVDuration(path); err == nil {
		t.Fatal("expected error for non-wav content")
	}
}

func TestWAVDurationSkipsUnknownChunks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listinfo.wav")
	writeWAV(t, path, 24000, 24000)

	// Inject a LIST chunk between fmt and data.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read wav: %v", err)
	}
	var list bytes.Buffer
	list.WriteString("LIST")
	binary.Write(&list, binary.LittleEndian, uint32(4)) //nolint:errcheck
	list.WriteString("INFO")

	patched := append(append(append([]byte{}, raw[:36]...), list.Bytes()...), raw[36:]...)
	if err := os.WriteFile(path, patched, 0o644); err != nil {
		t.Fatalf("write patched wav: %v", err)
	}

	got, err := media.WAVDuration(path)
	if err != nil {
		t.Fatalf("WAVDuration returned error: %v", err)
	}
	if math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("expected 1.0s, got %f", got)
	}
}
