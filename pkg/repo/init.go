package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/odvcencio/grove/pkg/object"
)

const defaultHead = "ref: refs/heads/main\n"

// Init creates a grove repository at path, or leaves an existing one
// untouched. It ensures the .grove/ directory structure (hooks/, info/,
// logs/, objects/ and refs/{heads,remotes/origin,tags}/) and writes HEAD and
// config only when they are missing, so running it twice changes nothing.
func Init(path string, opts ...Option) (*Repo, error) {
	o := applyOptions(opts)
	if o.config != nil {
		if err := o.config.Validate(); err != nil {
			return nil, fmt.Errorf("init: %w", err)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	groveDir := filepath.Join(abs, DirName)

	reinit := false
	if info, err := os.Stat(groveDir); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("init: %s exists and is not a directory", groveDir)
		}
		reinit = true
	}

	dirs := []string{
		filepath.Join(groveDir, "hooks"),
		filepath.Join(groveDir, "info"),
		filepath.Join(groveDir, "logs"),
		filepath.Join(groveDir, "objects"),
		filepath.Join(groveDir, "refs", "heads"),
		filepath.Join(groveDir, "refs", "remotes", "origin"),
		filepath.Join(groveDir, "refs", "tags"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	if err := writeFileIfMissing(filepath.Join(groveDir, "HEAD"), []byte(defaultHead)); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	if _, err := os.Stat(configPath(groveDir)); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if o.config != nil {
			cfg = *o.config
		}
		if err := writeConfig(groveDir, cfg); err != nil {
			return nil, fmt.Errorf("init: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("init: stat config: %w", err)
	}

	r, err := openAt(abs, abs, o)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if reinit {
		r.log.Info("reinitialized existing repository", zap.String("dir", groveDir))
	} else {
		r.log.Info("initialized empty repository", zap.String("dir", groveDir))
	}
	return r, nil
}

func writeFileIfMissing(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Open searches upward from path for a .grove/ directory and opens the
// repository. path becomes the repository's WorkDir. Returns
// ErrNotRepository if no .grove/ directory is found.
func Open(path string, opts ...Option) (*Repo, error) {
	o := applyOptions(opts)

	// Resolve to absolute path for consistent traversal.
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		info, err := os.Stat(filepath.Join(cur, DirName))
		if err == nil && info.IsDir() {
			return openAt(cur, abs, o)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			// Reached filesystem root without finding .grove/.
			return nil, ErrNotRepository
		}
		cur = parent
	}
}

func openAt(root, workDir string, o *options) (*Repo, error) {
	groveDir := filepath.Join(root, DirName)
	cfg, err := readConfig(groveDir)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	store, err := openStore(groveDir, cfg, o.log)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	return &Repo{
		RootDir:  root,
		GroveDir: groveDir,
		WorkDir:  workDir,
		Store:    store,
		Config:   cfg,
		log:      o.log.With(zap.String("component", "repo")),
	}, nil
}

func openStore(groveDir string, cfg Config, log *zap.Logger) (*object.Store, error) {
	format, err := object.ParseFormat(cfg.Core.ObjectFormat)
	if err != nil {
		return nil, err
	}
	opts := []object.Option{
		object.WithFormat(format),
		object.WithCacheSize(cfg.Cache.Objects),
		object.WithLogger(log.With(zap.String("component", "objects"))),
	}
	if cfg.Core.Storage == StorageBolt {
		b, err := object.OpenBoltBackend(filepath.Join(groveDir, object.BoltFile))
		if err != nil {
			return nil, err
		}
		opts = append(opts, object.WithBackend(b))
	}
	return object.NewStore(groveDir, opts...), nil
}
