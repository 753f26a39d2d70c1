// Package samtext reads and writes SAM text one line at a time.
//
// Unlike a full SAM parser, it only extracts the fields needed to group and
// filter records (QNAME, FLAG and the length of SEQ) and keeps every line
// verbatim, so that records can be written back byte for byte.
package samtext
