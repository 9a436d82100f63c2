package radio

import "errors"

// Fatal errors from the Radio Adapter. All of them abort the process;
// none are retried because a broken SDR context does not repair itself.
var (
	// ErrUnavailable is returned when the device context itself cannot
	// be created (no device node, permission denied, driver not loaded).
	ErrUnavailable = errors.New("radio: device unavailable")

	// ErrConfigRejected is returned when the front end refuses a
	// configuration write (frequency out of range, unsupported gain
	// mode, bandwidth not achievable at the requested sample rate).
	ErrConfigRejected = errors.New("radio: configuration rejected")

	// ErrBufferExhausted is returned when a refill cannot complete,
	// typically because the underlying ring buffer overran before the
	// caller kept up.
	ErrBufferExhausted = errors.New("radio: buffer exhausted")
)
