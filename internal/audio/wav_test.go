package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func buildWAV(t *testing.T, sampleRate int, channels int, samples []int16) []byte {
	t.Helper()

	var data bytes.Buffer
	for _, s := range samples {
		_ = binary.Write(&data, binary.LittleEndian, s)
	}

	var out bytes.Buffer
	out.WriteString("RIFF")
	_ = binary.Write(&out, binary.LittleEndian, uint32(36+data.Len()))
	out.WriteString("WAVE")

	out.WriteString("fmt ")
	_ = binary.Write(&out, binary.LittleEndian, uint32(16))
	_ = binary.Write(&out, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&out, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&out, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&out, binary.LittleEndian, uint32(sampleRate*channels*2))
	_ = binary.Write(&out, binary.LittleEndian, uint16(channels*2))
	_ = binary.Write(&out, binary.LittleEndian, uint16(16))

	out.WriteString("data")
	_ = binary.Write(&out, binary.LittleEndian, uint32(data.Len()))
	out.Write(data.Bytes())

	return out.Bytes()
}

func TestDecodeWAV(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 100, -100, 32767, -32768}
	clip, err := decodeWAV(buildWAV(t, 16000, 1, samples))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if clip.sampleRate != 16000 || clip.channels != 1 {
		t.Fatalf("unexpected format: %+v", clip)
	}
	if len(clip.data) != len(samples)*2 {
		t.Fatalf("unexpected data length: %d", len(clip.data))
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := decodeWAV([]byte("definitely not audio")); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := decodeWAV(nil); err == nil {
		t.Fatalf("expected decode error for empty input")
	}
}

func TestDecodeWAVRejectsNonPCM(t *testing.T) {
	t.Parallel()

	wav := buildWAV(t, 16000, 1, []int16{1, 2, 3})
	// Flip the audio format field to IEEE float.
	binary.LittleEndian.PutUint16(wav[20:], 3)
	if _, err := decodeWAV(wav); err == nil {
		t.Fatalf("expected format rejection")
	}
}

func TestSampleReaderDrainsAllSamples(t *testing.T) {
	t.Parallel()

	samples := []int16{1, 2, 3, 4, 5}
	wav := buildWAV(t, 16000, 1, samples)
	clip, err := decodeWAV(wav)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	end := errors.New("end of data")
	reader := &sampleReader{data: clip.data, eof: func() error { return end }}

	var got []int16
	buf := make([]int16, 2)
	for {
		n, err := reader.Read(buf)
		got = append(got, buf[:n]...)
		if err != nil {
			if !errors.Is(err, end) {
				t.Fatalf("unexpected error: %v", err)
			}
			break
		}
	}

	if len(got) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(got))
	}
	for i, s := range samples {
		if got[i] != s {
			t.Fatalf("sample %d mismatch: %d != %d", i, got[i], s)
		}
	}
}
