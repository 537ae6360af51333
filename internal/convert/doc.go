// Package convert transcodes byte streams between charsets.
//
// Two layers are provided. Narrow is a thin stateful transcoder in the
// manner of iconv: each Feed call converts as much input as fits and reports
// why it stopped (invalid input, incomplete input, output full). Converter
// builds a resumable streaming engine on top of it:
//
//   - input arrives in arbitrary chunks; characters split across chunks are
//     carried over and completed on the next Feed
//   - invalid bytes are not dropped; they are collected into invalid output
//     chunks that sit between the valid text around them
//   - output is bounded by a fixed-capacity buffer and delivered as discrete
//     chunks through a pull queue (Next, All, Drain) or a push sink
//
// The conversion primitive is golang.org/x/text. Charset names are resolved
// by the encoding package.
//
// Typical use:
//
//	c := convert.New()
//	if err := c.Open("ISO-8859-15", "UTF-8"); err != nil {
//		return err
//	}
//	for _, chunk := range input {
//		if err := c.Feed(chunk); err != nil {
//			c.Close()
//			return err
//		}
//	}
//	err := c.Close()
//	for out := range c.All() {
//		...
//	}
package convert
