package testsupport

import (
	"bytes"
	"encoding/binary"
)

// WAVBytes builds a minimal valid 16-bit mono PCM waveform of the requested
// length for synthesis fakes.
func WAVBytes(sampleRate, samples int) []byte {
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
	return buf.Bytes()
}
