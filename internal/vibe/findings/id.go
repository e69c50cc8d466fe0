package findings

import (
	"strings"

	"github.com/google/uuid"
)

// findingNamespace is a fixed, arbitrary namespace UUID used to derive
// stable finding_id values deterministically from a run's content,
// rather than from wall-clock or randomness (spec.md §8 "stable
// ordering" / idempotence invariant).
var findingNamespace = uuid.MustParse("6f7c9e1a-3b4f-4b8e-9c2d-8a1f7e6d5c4b")

// deterministicID derives a stable, opaque finding_id from the run's
// identity and the finding's own key fields via a name-based
// (SHA1, RFC 4122 version 5) UUID — the same inputs always yield the
// same id, satisfying the byte-identical-repeated-run invariant.
func deterministicID(runID string, parts ...string) string {
	name := runID + "|" + strings.Join(parts, "|")
	return uuid.NewSHA1(findingNamespace, []byte(name)).String()
}
