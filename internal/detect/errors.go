package detect

import "errors"

// ErrDetectionFailed is returned when no candidate encoding converts the
// whole content. The caller should ask for an encoding explicitly.
var ErrDetectionFailed = errors.New("unable to determine encoding")
