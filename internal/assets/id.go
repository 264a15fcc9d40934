package assets

import (
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// idNamespace scopes scene asset IDs so they never collide with other UUIDv5 users.
var idNamespace = uuid.MustParse("6f1c2a9e-3b7d-5e41-9a0c-2d8e4f6b1a37")

// ID is the stable identity of a scene asset, derived from its path.
type ID uuid.UUID

// IDFromPath returns the ID of the asset at path. Equivalent spellings of a
// path ("a/./b.yaml", "a/b.yaml") map to the same ID.
func IDFromPath(path string) ID {
	return ID(uuid.NewSHA1(idNamespace, []byte(NormalizePath(path))))
}

// NormalizePath cleans an asset path, uses forward slashes and NFC-composes
// it, so a name typed on one system and read back from a decomposing file
// system yields the same ID.
func NormalizePath(path string) string {
	return norm.NFC.String(filepath.ToSlash(filepath.Clean(path)))
}

// String returns the canonical UUID text.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether the ID is unset.
func (id ID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}
