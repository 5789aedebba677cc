// Package canonical provides RFC 8785 style canonical JSON and the
// content-addressed fingerprints derived from it.
//
// A compiled query is identified by the SHA-256 of its canonical form, so
// two compilations that produce the same text and parameters share one
// fingerprint regardless of map iteration order.
package canonical
