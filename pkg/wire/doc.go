// Package wire implements the NSLogger binary message format.
//
// Every log message is framed as a 4-byte big-endian length (covering
// everything after itself), a 2-byte big-endian part count, and a sequence
// of typed parts. Each part is a 1-byte key, a 1-byte type, and a
// type-specific payload: fixed-width big-endian integers for Int16/Int32/
// Int64 parts, or a 4-byte big-endian length followed by raw bytes for
// String, Binary and Image parts.
//
// Part order on the wire equals part-addition order. The desktop viewer
// relies on this ordering, so Message never reorders or batches parts.
package wire
