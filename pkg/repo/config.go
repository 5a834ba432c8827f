package repo

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/odvcencio/grove/pkg/object"
)

// Storage backends selectable through core.storage.
const (
	StorageLoose = "loose"
	StorageBolt  = "bolt"
)

const defaultObjectCache = 256

// Config is the repository-local configuration stored as TOML in
// .grove/config.
type Config struct {
	Core  CoreConfig  `toml:"core"`
	Cache CacheConfig `toml:"cache"`
}

type CoreConfig struct {
	ObjectFormat string `toml:"object_format"`
	Storage      string `toml:"storage"`
}

type CacheConfig struct {
	// Objects is the number of decoded objects kept in memory. Zero disables
	// the cache.
	Objects int `toml:"objects"`
}

// DefaultConfig returns the configuration of a freshly initialized
// repository.
func DefaultConfig() Config {
	return Config{
		Core: CoreConfig{
			ObjectFormat: string(object.DefaultFormat),
			Storage:      StorageLoose,
		},
		Cache: CacheConfig{Objects: defaultObjectCache},
	}
}

// Validate checks that every setting names a supported value.
func (c Config) Validate() error {
	if _, err := object.ParseFormat(c.Core.ObjectFormat); err != nil {
		return fmt.Errorf("core.object_format: %w", err)
	}
	switch c.Core.Storage {
	case "", StorageLoose, StorageBolt:
	default:
		return fmt.Errorf("core.storage: unknown storage %q", c.Core.Storage)
	}
	if c.Cache.Objects < 0 {
		return fmt.Errorf("cache.objects: must not be negative, got %d", c.Cache.Objects)
	}
	return nil
}

func configPath(groveDir string) string {
	return filepath.Join(groveDir, "config")
}

// readConfig reads .grove/config. Missing keys keep their defaults and a
// missing file yields DefaultConfig.
func readConfig(groveDir string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(configPath(groveDir), &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("read config: unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// writeConfig atomically writes .grove/config.
func writeConfig(groveDir string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}

	tmp, err := os.CreateTemp(groveDir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, configPath(groveDir)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}
