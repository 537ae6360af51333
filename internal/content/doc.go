// Package content holds file content as it is read from disk.
//
// A Buffer is an ordered, append-only sequence of immutable chunks. Chunks
// keep the boundaries of the reads that produced them, so consumers such as
// the encoding detector and the streaming converter can process content
// piecewise without ever concatenating the whole file.
package content
