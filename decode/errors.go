package decode

import "errors"

// ErrSoftDecode wraps every non-fatal decode failure: too few clean
// pulses, no preamble/sync-gap match, or zero payload bits. All three are
// handled identically by the caller — log and return to Armed.
var ErrSoftDecode = errors.New("decode: soft failure")
