package config

const (
	defaultLogDir           = "~/.local/share/mxtoaaf/logs"
	defaultHistoryFile      = "history.db"
	defaultFrameRate        = 24.0
	defaultOutputFolderName = "AAFs"
	defaultSampleRate       = 48000
	defaultBitDepth         = 16
	defaultChannels         = 2
	defaultSettleMillis     = 250
	defaultFFprobe          = "ffprobe"
	defaultWriter           = "mxtoaaf-writer"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Convert: Convert{
			FrameRate:        defaultFrameRate,
			Embed:            true,
			SkipExisting:     true,
			Recursive:        true,
			OutputFolderName: defaultOutputFolderName,
		},
		Transcode: Transcode{
			SampleRate:   defaultSampleRate,
			BitDepth:     defaultBitDepth,
			Channels:     defaultChannels,
			SettleMillis: defaultSettleMillis,
		},
		Metadata: Metadata{
			FFprobe: defaultFFprobe,
		},
		Container: Container{
			Writer: defaultWriter,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
