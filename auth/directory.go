package auth

// Directory is the fixed lookup table mapping known principal ids to
// identity records. It is constructed once at harness setup and read-only
// afterwards, which makes it safe to share across concurrent requests.
type Directory struct {
	entries map[int64]Identity
}

// NewDirectory builds a directory from the given identities, keyed by ID.
func NewDirectory(identities ...Identity) *Directory {
	entries := make(map[int64]Identity, len(identities))
	for _, id := range identities {
		entries[id.ID] = id
	}
	return &Directory{entries: entries}
}

// Lookup returns the identity for the given principal id, if present.
func (d *Directory) Lookup(id int64) (*Identity, bool) {
	entry, ok := d.entries[id]
	if !ok {
		return nil, false
	}
	return &entry, true
}

// Len returns the number of directory entries.
func (d *Directory) Len() int { return len(d.entries) }

// DefaultDirectory returns the directory the JWT bootstrap uses: a single
// known principal with id 56732.
func DefaultDirectory() *Directory {
	return NewDirectory(Identity{
		ID:   56732,
		Name: "Jen Jones",
	})
}
