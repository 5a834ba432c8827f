package object

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Backend persists raw object envelopes keyed by hash. Put must be atomic per
// object: a concurrent or later Get sees either the full envelope or
// ErrObjectNotFound, never a partial write.
type Backend interface {
	Has(h Hash) (bool, error)
	Get(h Hash) ([]byte, error)
	Put(h Hash, raw []byte) error
	Close() error
}

// Store is a content-addressed object store. Objects are kept as the
// envelope "type len\0content" and filed under the hash of that envelope.
type Store struct {
	format  Format
	backend Backend
	cache   *lru.Cache[Hash, cachedObject]
	log     *zap.Logger
}

type cachedObject struct {
	objType ObjectType
	data    []byte
}

// Option configures a Store.
type Option func(*Store)

// WithFormat selects the digest algorithm. Defaults to DefaultFormat.
func WithFormat(f Format) Option {
	return func(s *Store) {
		s.format = f
	}
}

// WithBackend replaces the default loose-file backend.
func WithBackend(b Backend) Option {
	return func(s *Store) {
		s.backend = b
	}
}

// WithCacheSize keeps up to n decoded objects in memory. Zero disables the
// cache.
func WithCacheSize(n int) Option {
	return func(s *Store) {
		if n <= 0 {
			s.cache = nil
			return
		}
		c, _ := lru.New[Hash, cachedObject](n) // returns error only if size is not positive
		s.cache = c
	}
}

// WithLogger sets the logger for object writes.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// NewStore creates a Store rooted at the given directory. Unless another
// backend is supplied, objects live as loose files under root/objects/,
// created lazily on first write.
func NewStore(root string, opts ...Option) *Store {
	s := &Store{
		format: DefaultFormat,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.backend == nil {
		s.backend = NewLooseBackend(filepath.Join(root, "objects"))
	}
	return s
}

// Format returns the digest algorithm of the store.
func (s *Store) Format() Format {
	return s.format
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// ComputeID returns the id content would be stored under as a blob, without
// writing anything.
func (s *Store) ComputeID(data []byte) Hash {
	return s.format.HashObject(TypeBlob, data)
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if !h.Valid() {
		return false
	}
	if s.cache != nil && s.cache.Contains(h) {
		return true
	}
	ok, err := s.backend.Has(h)
	return err == nil && ok
}

// Write stores an object and returns its content hash. Writing content that
// is already present is a no-op beyond hashing.
func (s *Store) Write(objType ObjectType, data []byte) (Hash, error) {
	h := s.format.HashObject(objType, data)

	// Fast path: already exists.
	if s.Has(h) {
		return h, nil
	}

	envelope := fmt.Sprintf("%s %d\x00", objType, len(data))
	raw := make([]byte, 0, len(envelope)+len(data))
	raw = append(raw, envelope...)
	raw = append(raw, data...)

	if err := s.backend.Put(h, raw); err != nil {
		return "", fmt.Errorf("object write %s: %w", h, err)
	}
	s.log.Debug("object written",
		zap.String("type", string(objType)),
		zap.String("hash", string(h)),
		zap.Int("size", len(data)))
	return h, nil
}

// Read retrieves an object by hash, returning its type and raw content.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	if !h.Valid() {
		// A malformed id can never have been stored.
		return "", nil, fmt.Errorf("object read %q: %w: %w", h, ErrObjectNotFound, ErrInvalidHash)
	}
	if s.cache != nil {
		if obj, ok := s.cache.Get(h); ok {
			return obj.objType, bytes.Clone(obj.data), nil
		}
	}

	raw, err := s.backend.Get(h)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}

	objType, content, err := parseEnvelope(raw)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	if s.cache != nil {
		s.cache.Add(h, cachedObject{objType: objType, data: bytes.Clone(content)})
	}
	return objType, content, nil
}

// parseEnvelope splits "type len\0content" and checks the length.
func parseEnvelope(raw []byte) (ObjectType, []byte, error) {
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("invalid format (no NUL)")
	}
	header := string(raw[:nulIdx])
	content := raw[nulIdx+1:]

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("invalid header %q", header)
	}
	length, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("invalid length %q: %w", parts[1], err)
	}
	if len(content) != length {
		return "", nil, fmt.Errorf("length mismatch (header=%d, actual=%d)", length, len(content))
	}
	return ObjectType(parts[0]), content, nil
}

// Put stores content as a blob and returns its id.
func (s *Store) Put(data []byte) (Hash, error) {
	return s.Write(TypeBlob, data)
}

// Get returns the content of a previously stored object of any type.
func (s *Store) Get(h Hash) ([]byte, error) {
	_, data, err := s.Read(h)
	return data, err
}

// ---------------------------------------------------------------------------
// Trees
// ---------------------------------------------------------------------------

// WriteTree serializes and stores a TreeObj.
func (s *Store) WriteTree(tr *TreeObj) (Hash, error) {
	return s.Write(TypeTree, MarshalTree(tr))
}

// ReadTree reads and deserializes a TreeObj.
func (s *Store) ReadTree(h Hash) (*TreeObj, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeTree {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q", h, objType, TypeTree)
	}
	return UnmarshalTree(data)
}
