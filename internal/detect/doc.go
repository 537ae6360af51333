// Package detect determines the character encoding of file content.
//
// Detection runs in three phases. A byte order mark is authoritative. A
// statistical sniffer is consulted next, with plain ASCII promoted to UTF-8
// when the locale is UTF-8. Otherwise every candidate encoding is tried in
// order with a full discard-mode conversion of the content, and the first
// one that converts without a single invalid byte wins.
//
//	det := detect.New(detect.WithLogger(logger))
//	enc, err := det.Determine(buf)
//	if errors.Is(err, detect.ErrDetectionFailed) {
//		// ask the user
//	}
package detect
