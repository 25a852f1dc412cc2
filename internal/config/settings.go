package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/nota/internal/common"
	"github.com/spf13/viper"
)

// Settings holds all application configuration.
type Settings struct {
	Server  ServerSettings  `mapstructure:"server"`
	Journal JournalSettings `mapstructure:"journal"`
	Logging LoggingSettings `mapstructure:"logging"`
	Stub    StubSettings    `mapstructure:"stub"`
	UI      UISettings      `mapstructure:"ui"`
}

// ServerSettings locates the document analysis server.
type ServerSettings struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// JournalSettings locates the local review journal.
type JournalSettings struct {
	Path    string `mapstructure:"path"`
	Enabled bool   `mapstructure:"enabled"`
}

// LoggingSettings configures slog.
type LoggingSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// StubSettings configures the local stand-in server.
type StubSettings struct {
	Addr string `mapstructure:"addr"`
}

// UISettings configures the terminal UI.
type UISettings struct {
	Theme    string `mapstructure:"theme"`
	StartDir string `mapstructure:"start_dir"`
}

// Defaults.
const (
	DefaultServerURL   = "http://localhost:5000"
	DefaultTimeout     = 120 * time.Second
	DefaultJournalPath = "~/.local/share/nota/journal.db"
	DefaultLogFile     = "~/.local/share/nota/nota.log"
	DefaultStubAddr    = ":5000"
)

// EnvPrefix prefixes every environment variable read by viper.
const EnvPrefix = "NOTA"

// Configure binds v to NOTA_* environment variables and registers defaults.
// NOTA_SERVER_URL sets server.url.
func Configure(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
}

// SetDefaults registers every key with its default so environment variables
// are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.url", DefaultServerURL)
	v.SetDefault("server.timeout", DefaultTimeout)
	v.SetDefault("journal.path", DefaultJournalPath)
	v.SetDefault("journal.enabled", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", DefaultLogFile)
	v.SetDefault("stub.addr", DefaultStubAddr)
	v.SetDefault("ui.theme", "default")
	v.SetDefault("ui.start_dir", ".")
}

// Load reads the settings held by v, expands paths and validates them.
func Load(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	s.Journal.Path = ExpandPath(s.Journal.Path)
	s.Logging.File = ExpandPath(s.Logging.File)
	s.UI.StartDir = ExpandPath(s.UI.StartDir)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the settings for values no command can work with.
func (s *Settings) Validate() error {
	u, err := url.Parse(s.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: server.url must be an http(s) URL, got %q", common.ErrInvalidConfig, s.Server.URL)
	}
	if s.Server.Timeout <= 0 {
		return fmt.Errorf("%w: server.timeout must be positive", common.ErrInvalidConfig)
	}
	if s.Journal.Enabled && s.Journal.Path == "" {
		return fmt.Errorf("%w: journal.path", common.ErrMissingConfig)
	}
	if _, err := common.ParseLevel(s.Logging.Level); err != nil {
		return err
	}
	switch s.Logging.Format {
	case "console", "json", "":
	default:
		return fmt.Errorf("%w: invalid log format %q", common.ErrInvalidConfig, s.Logging.Format)
	}
	return nil
}
