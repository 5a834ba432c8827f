package repo

import (
	"go.uber.org/zap"

	"github.com/odvcencio/grove/pkg/object"
)

// DirName is the name of the repository directory inside the working tree.
const DirName = ".grove"

// Repo represents an opened grove repository.
type Repo struct {
	RootDir  string        // working tree root
	GroveDir string        // .grove/ directory
	WorkDir  string        // caller's directory; relative paths resolve against it
	Store    *object.Store // content-addressed object store
	Config   Config

	log *zap.Logger
}

// Option configures Init and Open.
type Option func(*options)

type options struct {
	log    *zap.Logger
	config *Config
}

// WithLogger sets the logger used by the repository and its object store.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithConfig sets the configuration Init writes for a new repository. It is
// ignored when the repository already has a config.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = &cfg
	}
}

func applyOptions(opts []Option) *options {
	o := &options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Close releases the object store.
func (r *Repo) Close() error {
	return r.Store.Close()
}
