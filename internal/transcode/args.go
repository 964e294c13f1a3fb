package transcode

import "strconv"

const (
	DefaultSampleRate = 48000
	DefaultBitDepth   = 16
	DefaultChannels   = 2
)

// Params are the forced output parameters for the intermediate WAV.
type Params struct {
	SampleRate int
	BitDepth   int
	Channels   int
}

// DefaultParams returns 48 kHz, 16-bit, stereo.
func DefaultParams() Params {
	return Params{SampleRate: DefaultSampleRate, BitDepth: DefaultBitDepth, Channels: DefaultChannels}
}

func (p Params) withDefaults() Params {
	if p.SampleRate <= 0 {
		p.SampleRate = DefaultSampleRate
	}
	if p.BitDepth != 24 {
		p.BitDepth = DefaultBitDepth
	}
	if p.Channels <= 0 {
		p.Channels = DefaultChannels
	}
	return p
}

// Codec returns the ffmpeg PCM encoder matching the bit depth.
func (p Params) Codec() string {
	if p.withDefaults().BitDepth == 24 {
		return "pcm_s24le"
	}
	return "pcm_s16le"
}

// BuildArgs returns the ffmpeg argument list (without the binary) converting
// src into a plain PCM WAV at dst. Video streams such as embedded cover art
// are dropped and any existing dst is overwritten.
func BuildArgs(p Params, src, dst string) []string {
	p = p.withDefaults()
	return []string{
		"-y",
		"-v", "error",
		"-i", src,
		"-vn",
		"-ar", strconv.Itoa(p.SampleRate),
		"-ac", strconv.Itoa(p.Channels),
		"-acodec", p.Codec(),
		"-rf64", "never",
		"-f", "wav",
		dst,
	}
}
