package model

import "errors"

// ErrDataUnavailable marks failures where the remote source cannot serve the
// requested block or pool. The whole in-progress fetch aborts; no partial
// position set is returned.
var ErrDataUnavailable = errors.New("data unavailable for requested block")

// ErrMalformedRecord marks a fetched record with a missing or non-parseable
// required field. Treated as a data-source contract violation, never coerced.
var ErrMalformedRecord = errors.New("malformed record")
