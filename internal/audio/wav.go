package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// wavClip is a decoded 16-bit PCM clip ready for playback.
type wavClip struct {
	sampleRate int
	channels   int
	data       []byte
}

var errNoData = errors.New("wav file has no data chunk")

// decodeWAV parses a RIFF/WAVE container holding 16-bit PCM audio. The
// backend's TTS stage emits exactly this format.
func decodeWAV(b []byte) (wavClip, error) {
	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return wavClip{}, errors.New("not a RIFF/WAVE file")
	}

	var clip wavClip
	sawFormat := false

	offset := 12
	for offset+8 <= len(b) {
		chunkID := string(b[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(b[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(b) {
			return wavClip{}, fmt.Errorf("truncated %q chunk", chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return wavClip{}, errors.New("short fmt chunk")
			}
			format := binary.LittleEndian.Uint16(b[body:])
			channels := int(binary.LittleEndian.Uint16(b[body+2:]))
			sampleRate := int(binary.LittleEndian.Uint32(b[body+4:]))
			bits := binary.LittleEndian.Uint16(b[body+14:])
			if format != 1 {
				return wavClip{}, fmt.Errorf("unsupported wav format %d, want PCM", format)
			}
			if bits != 16 {
				return wavClip{}, fmt.Errorf("unsupported sample width %d, want 16-bit", bits)
			}
			if channels != 1 && channels != 2 {
				return wavClip{}, fmt.Errorf("unsupported channel count %d", channels)
			}
			clip.channels = channels
			clip.sampleRate = sampleRate
			sawFormat = true
		case "data":
			clip.data = b[body : body+chunkSize]
		}

		// Chunks are word-aligned.
		offset = body + chunkSize + chunkSize%2
	}

	if !sawFormat {
		return wavClip{}, errors.New("wav file has no fmt chunk")
	}
	if len(clip.data) == 0 {
		return wavClip{}, errNoData
	}
	return clip, nil
}

// sampleReader feeds little-endian 16-bit samples to the playback stream.
type sampleReader struct {
	data []byte
	off  int
	eof  func() error
}

func (r *sampleReader) Read(out []int16) (int, error) {
	if r.off+1 >= len(r.data) {
		return 0, r.eof()
	}
	n := 0
	for n < len(out) && r.off+1 < len(r.data) {
		out[n] = int16(binary.LittleEndian.Uint16(r.data[r.off:]))
		r.off += 2
		n++
	}
	return n, nil
}
