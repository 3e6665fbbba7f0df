package log

const (
	defaultLogMaxSize = 100 // MB
)

// FileConfig configures the rotating log file
type FileConfig struct {
	// Filename is the log file path. Empty disables file logging.
	Filename   string `yaml:"filename"`
	MaxSize    int    `yaml:"max_size"`    // MB before rotation
	MaxDays    int    `yaml:"max_days"`    // 0 keeps files forever
	MaxBackups int    `yaml:"max_backups"` // 0 keeps every backup
}

// Config configures the process logger
type Config struct {
	// Level is debug, info, warn or error. "trace" is accepted as debug.
	Level string `yaml:"level"`
	// Format is console or json
	Format string `yaml:"format"`
	// Stdout enables the console sink
	Stdout bool       `yaml:"stdout"`
	File   FileConfig `yaml:"file"`
	// Development enables stack traces on warnings and DPanic panics
	Development bool `yaml:"development"`
}

// DefaultConfig logs info and above to stdout and server.log
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Stdout: true,
		File: FileConfig{
			Filename: "server.log",
			MaxSize:  defaultLogMaxSize,
		},
	}
}
