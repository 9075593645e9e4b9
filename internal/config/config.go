package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/corpeningc/unconflict/internal/conflict"
	"github.com/corpeningc/unconflict/internal/errors"
	"github.com/corpeningc/unconflict/internal/logging"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix is stripped from environment variables. A double underscore
// separates sections, e.g. UNCONFLICT_MARKERS__SIZE=6.
const EnvPrefix = "UNCONFLICT_"

// ProjectFileNames are looked up in the target directory, first match wins.
var ProjectFileNames = []string{".unconflict.toml", ".unconflict.yaml", ".unconflict.yml"}

type Config struct {
	Markers Markers `koanf:"markers"`
	Resolve Resolve `koanf:"resolve"`
	Files   Files   `koanf:"files"`
}

type Markers struct {
	Size  int  `koanf:"size"`
	Diff3 bool `koanf:"diff3"`
}

type Resolve struct {
	IgnorableTokens []string `koanf:"ignorable_tokens"`
	DryRun          bool     `koanf:"dry_run"`
}

type Files struct {
	Recursive bool `koanf:"recursive"`
}

// Policy converts the marker and resolve sections into a conflict.Policy.
func (c *Config) Policy() conflict.Policy {
	return conflict.Policy{
		MarkerSize:      c.Markers.Size,
		IgnorableTokens: append([]string(nil), c.Resolve.IgnorableTokens...),
		Diff3:           c.Markers.Diff3,
	}
}

// Options selects the layers Load reads. Empty fields skip their layer.
type Options struct {
	// UserFile defaults to $XDG_CONFIG_HOME/unconflict/config.toml when empty
	// and SkipUserFile is false.
	UserFile     string
	SkipUserFile bool
	// ProjectDir is searched for ProjectFileNames.
	ProjectDir string
	// File is an explicit config file; it must exist.
	File string
	// Overrides are flat dotted keys applied last, e.g. "markers.size".
	Overrides map[string]interface{}
}

// DefaultsTOML returns the embedded default configuration file.
func DefaultsTOML() string {
	return string(defaultConfig)
}

// UserFilePath is where the per-user config file is looked up.
func UserFilePath() string {
	return filepath.Join(xdg.ConfigHome, logging.AppName, "config.toml")
}

// Load merges defaults, user file, project file, explicit file, environment
// and overrides, in that order.
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	if !opts.SkipUserFile {
		userFile := opts.UserFile
		if userFile == "" {
			userFile = UserFilePath()
		}
		if err := loadIfExists(k, userFile); err != nil {
			return nil, err
		}
	}

	if opts.ProjectDir != "" {
		for _, name := range ProjectFileNames {
			path := filepath.Join(opts.ProjectDir, name)
			if _, err := os.Stat(path); err == nil {
				if err := loadFile(k, path); err != nil {
					return nil, err
				}
				logger.Debug().Str("path", path).Msg("Loaded project config")
				break
			}
		}
	}

	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s", opts.File)
		}
		if err := loadFile(k, opts.File); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode config")
	}
	if cfg.Markers.Size < 1 {
		return nil, errors.Newf(errors.ErrConfigParse, "markers.size must be positive, got %d", cfg.Markers.Size)
	}

	logger.Debug().
		Int("markerSize", cfg.Markers.Size).
		Strs("ignorableTokens", cfg.Resolve.IgnorableTokens).
		Bool("diff3", cfg.Markers.Diff3).
		Msg("Configuration loaded")

	return &cfg, nil
}

func envValue(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if key == "resolve.ignorable_tokens" {
		return key, strings.Split(value, ",")
	}
	return key, value
}

func loadIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return loadFile(k, path)
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	default:
		return errors.Newf(errors.ErrConfigParse, "unsupported config format: %s", path)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
	}
	return nil
}

// rawBytesProvider implements koanf.Provider for embedded bytes.
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrUnknown, "not implemented")
}
