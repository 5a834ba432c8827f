package object

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"

	"lukechampine.com/blake3"
)

// Format names the digest algorithm a repository hashes objects with. It is
// fixed at init time and recorded in the repository config.
type Format string

const (
	FormatSHA256 Format = "sha256"
	FormatBLAKE3 Format = "blake3"

	// DefaultFormat is used when a repository does not name one.
	DefaultFormat = FormatSHA256
)

// HashLen is the length of a hex-encoded Hash for every supported format.
const HashLen = 64

// ParseFormat validates a format name. The empty string selects
// DefaultFormat.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return DefaultFormat, nil
	case FormatSHA256, FormatBLAKE3:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown object format %q", s)
	}
}

func (f Format) newHash() hash.Hash {
	if f == FormatBLAKE3 {
		return blake3.New(32, nil)
	}
	return sha256.New()
}

// Sum hashes raw bytes and returns the lowercase hex digest.
func (f Format) Sum(data []byte) Hash {
	h := f.newHash()
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// HashObject hashes the envelope "type len\0content". The result is the
// ObjectId the store files the object under.
func (f Format) HashObject(objType ObjectType, data []byte) Hash {
	h := f.newHash()
	fmt.Fprintf(h, "%s %d\x00", objType, len(data))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// HashBytes computes the raw SHA-256 hash of data and returns it as a
// lowercase hex-encoded Hash.
func HashBytes(data []byte) Hash {
	return FormatSHA256.Sum(data)
}

// HashObject computes the SHA-256 of the envelope "type len\0content",
// mirroring Git's object hashing but with SHA-256.
func HashObject(objType ObjectType, data []byte) Hash {
	return FormatSHA256.HashObject(objType, data)
}

// Valid reports whether h looks like a hex digest produced by a Format.
func (h Hash) Valid() bool {
	if len(h) != HashLen {
		return false
	}
	for i := 0; i < len(h); i++ {
		c := h[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
