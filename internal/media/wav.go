package media

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// WAVDuration returns the playback length in seconds of a RIFF/WAVE file by
// walking its chunks for the fmt and data sections. VOICEVOX emits plain
// 16-bit PCM, but any uncompressed layout with a valid byte rate works.
func WAVDuration(path string) (float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return readWAVDuration(file)
}

func readWAVDuration(r io.Reader) (float64, error) {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, fmt.Errorf("read riff header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return 0, errors.New("not a riff wave file")
	}

	var (
		byteRate uint32
		dataSize uint32
		haveFmt  bool
		haveData bool
	)

	for !(haveFmt && haveData) {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return 0, fmt.Errorf("read chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return 0, fmt.Errorf("fmt chunk too small: %d bytes", size)
			}
			var fmtChunk [16]byte
			if _, err := io.ReadFull(r, fmtChunk[:]); err != nil {
				return 0, fmt.Errorf("read fmt chunk: %w", err)
			}
			byteRate = binary.LittleEndian.Uint32(fmtChunk[8:12])
			haveFmt = true
			if err := skipChunk(r, size-16); err != nil {
				return 0, err
			}
		case "data":
			dataSize = size
			haveData = true
			if !haveFmt {
				if err := skipChunk(r, size); err != nil {
					return 0, err
				}
			}
		default:
			if err := skipChunk(r, size); err != nil {
				return 0, err
			}
		}
	}

	if !haveFmt || !haveData {
		return 0, errors.New("missing fmt or data chunk")
	}
	if byteRate == 0 {
		return 0, errors.New("zero byte rate")
	}
	return float64(dataSize) / float64(byteRate), nil
}

func skipChunk(r io.Reader, size uint32) error {
	// Chunks are word aligned; odd sizes carry a pad byte.
	if size%2 == 1 {
		size++
	}
	if size == 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("skip chunk: %w", err)
	}
	return nil
}
