package deps

import (
	"mxtoaaf/internal/transcode"
)

// CheckFFmpeg reports the ffmpeg binary the transcoder will execute. Optional
// because WAV sources and non-embedded builds never need it.
func CheckFFmpeg(resolver *transcode.Resolver) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Transcodes compressed audio to PCM WAV",
		Optional:    true,
	}
	if resolver == nil {
		resolver = transcode.Default()
	}

	res, err := resolver.Resolve()
	if err != nil {
		result.Command = transcode.ExecutableName("ffmpeg")
		result.Detail = "not bundled at " + resolver.BundledPath() + " and not found in PATH"
		return result
	}

	result.Command = res.Path
	result.Available = true
	if res.Bundled {
		result.Detail = "bundled"
	} else {
		result.Detail = "system"
	}
	return result
}
