package object

// Hash is a 64-character lowercase hex digest identifying an object.
type Hash string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob ObjectType = "blob"
	TypeTree ObjectType = "tree"
)

// TreeEntry is one entry in a tree object. Hash names a blob for files and a
// subtree for directories. A tree is identified by its names and ids alone;
// file permissions live in the staging index, not in trees.
type TreeEntry struct {
	Name  string
	IsDir bool
	Hash  Hash
}

// Type returns the object type the entry references.
func (e TreeEntry) Type() ObjectType {
	if e.IsDir {
		return TypeTree
	}
	return TypeBlob
}

// TreeObj holds a sorted list of tree entries.
type TreeObj struct {
	Entries []TreeEntry // sorted by Name
}
