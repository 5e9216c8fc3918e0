package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/logging"
	"github.com/arthur-debert/dosort/pkg/output"
)

const (
	AppName = "dosort"

	// EnvPrefix prefixes environment variables that override settings
	EnvPrefix = "DOSORT_"

	SettingsFileName = "settings.toml"
	RulesFileName    = "config.yaml"
)

//go:embed embedded/defaults.toml
var defaultSettings []byte

// Settings are the user preferences that are not part of the rules file
type Settings struct {
	Config   string   `koanf:"config"`
	Format   string   `koanf:"format"`
	NoColor  bool     `koanf:"no_color"`
	Tags     []string `koanf:"tags"`
	SkipTags []string `koanf:"skip_tags"`
}

// LoadOptions controls where settings are read from
type LoadOptions struct {
	// SettingsFile overrides the settings.toml location
	SettingsFile string

	// Overrides are applied last, typically from command-line flags
	Overrides map[string]interface{}
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// ConfigDir returns the dosort directory below the XDG config home
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultSettingsPath returns the settings.toml location
func DefaultSettingsPath() string {
	return filepath.Join(ConfigDir(), SettingsFileName)
}

// DefaultRulesPath returns the rules file location used when none is set
func DefaultRulesPath() string {
	return filepath.Join(ConfigDir(), RulesFileName)
}

// LoadSettings merges defaults, the settings file, the environment and the
// overrides, in that order
func LoadSettings(opts LoadOptions) (*Settings, error) {
	logger := logging.GetLogger("config.settings")
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default settings")
	}

	// 2. Settings file if it exists
	path := opts.SettingsFile
	if path == "" {
		path = DefaultSettingsPath()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load settings from %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded settings file")
	}

	// 3. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment settings")
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load setting overrides")
		}
	}

	var settings Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &settings,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &settings, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal settings")
	}

	if err := settings.finalize(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Settings) finalize() error {
	if s.Config == "" {
		s.Config = DefaultRulesPath()
	}
	s.Format = strings.ToLower(s.Format)
	switch s.Format {
	case "":
		s.Format = output.FormatConsole
	case output.FormatConsole, output.FormatJSON:
	default:
		return errors.Newf(errors.ErrConfigInvalid, "unknown output format %q (expected console or json)", s.Format)
	}
	s.Tags = trimEmpty(s.Tags)
	s.SkipTags = trimEmpty(s.SkipTags)
	return nil
}

func trimEmpty(list []string) []string {
	var out []string
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
