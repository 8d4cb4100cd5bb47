package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/gopxl/beep/v2"
)

// SampleRate is the rate of every stream the remote service delivers.
const SampleRate beep.SampleRate = 44100

// Format is the sample encoding used by raw output backends.
type Format int

const (
	FormatS16 Format = iota
	FormatS32
	FormatF32
)

// ParseFormat parses "S16", "S32" or "F32" (case-insensitive). Empty means S16.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(s) {
	case "", "S16":
		return FormatS16, nil
	case "S32":
		return FormatS32, nil
	case "F32":
		return FormatF32, nil
	default:
		return 0, fmt.Errorf("unsupported format %q", s)
	}
}

func (f Format) String() string {
	switch f {
	case FormatS16:
		return "S16"
	case FormatS32:
		return "S32"
	case FormatF32:
		return "F32"
	default:
		return "Unknown"
	}
}

// SampleSize returns the size in bytes of one channel sample.
func (f Format) SampleSize() int {
	if f == FormatS16 {
		return 2
	}
	return 4
}

// Encode appends samples as interleaved little-endian stereo frames.
func (f Format) Encode(dst []byte, samples [][2]float64) []byte {
	for _, frame := range samples {
		for _, v := range frame {
			v = clamp(v)
			switch f {
			case FormatS16:
				dst = binary.LittleEndian.AppendUint16(dst, uint16(int16(v*math.MaxInt16)))
			case FormatS32:
				dst = binary.LittleEndian.AppendUint32(dst, uint32(int32(v*math.MaxInt32)))
			case FormatF32:
				dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(v)))
			}
		}
	}
	return dst
}

// DecodeS16 converts interleaved little-endian s16 stereo PCM to samples.
// A trailing partial frame is ignored.
func DecodeS16(data []byte) [][2]float64 {
	frames := len(data) / 4
	samples := make([][2]float64, frames)
	for i := range frames {
		l := int16(binary.LittleEndian.Uint16(data[i*4:]))
		r := int16(binary.LittleEndian.Uint16(data[i*4+2:]))
		samples[i] = [2]float64{float64(l) / math.MaxInt16, float64(r) / math.MaxInt16}
	}
	return samples
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
