// Package bitmap provides the fixed-universe result bitmap built by filter
// evaluation.
//
// The bitmap is sized to one segment's document count and filled by direct
// bit-setting over postings streams. Unlike compressed bitmap formats it has
// no container dispatch: setting a bit is one word OR, which keeps the union
// cheap even when a range matches a large fraction of the term dictionary.
package bitmap
