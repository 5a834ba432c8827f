package object

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// MarshalTree serializes a TreeObj. Entries are sorted by Name in byte order
// for deterministic output. Each entry is one line:
//
//	type hash name
//
// where type is "tree" or "blob". The name comes last so it may contain
// spaces. A tree with no entries serializes to zero bytes.
func MarshalTree(tr *TreeObj) []byte {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var buf bytes.Buffer
	for _, e := range sorted {
		fmt.Fprintf(&buf, "%s %s %s\n", e.Type(), e.Hash, e.Name)
	}
	return buf.Bytes()
}

// UnmarshalTree parses a TreeObj from its serialized form.
func UnmarshalTree(data []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return tr, nil
	}
	for _, line := range strings.Split(text, "\n") {
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 || parts[2] == "" {
			return nil, fmt.Errorf("unmarshal tree: malformed entry %q", line)
		}
		entry := TreeEntry{Name: parts[2], Hash: Hash(parts[1])}
		switch ObjectType(parts[0]) {
		case TypeTree:
			entry.IsDir = true
		case TypeBlob:
		default:
			return nil, fmt.Errorf("unmarshal tree: entry %q: unknown type %q", entry.Name, parts[0])
		}
		if !entry.Hash.Valid() {
			return nil, fmt.Errorf("unmarshal tree: entry %q: invalid hash %q", entry.Name, parts[1])
		}
		tr.Entries = append(tr.Entries, entry)
	}
	return tr, nil
}
