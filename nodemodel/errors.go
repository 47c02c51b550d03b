package nodemodel

import "errors"

// ErrDuplicatePhaseLink is returned by ValidatePhaseTable when two rings of
// the same barrier assign the same in-link or out-link to the same
// sub-phase, which would double-count that link's sending or receiving
// flow within a single barrier instant.
var ErrDuplicatePhaseLink = errors.New("nodemodel: duplicate link across rings in the same sub-phase")
