package binary

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/go-dhall/dhall-core/core"
	"github.com/pkg/errors"
)

// SemanticHash computes Dhall's "sha256:<hex>" semantic integrity
// hash of t: beta-normalise, then alpha-normalise, encode to canonical
// CBOR with Encode, then hash the bytes. Two terms with the same
// semantic hash have the same Normalize-then-AlphaNormalize form.
// Encode uses this package's own tag numbering (see codec.go), so the
// hash differs from the one other Dhall implementations compute for
// the same expression.
func SemanticHash(t core.Term) (string, error) {
	normal := core.AlphaNormalize(core.Normalize(t))
	encoded, err := Encode(normal)
	if err != nil {
		return "", errors.Wrap(err, "binary: semantic hash")
	}
	sum := sha256.Sum256(encoded)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}
