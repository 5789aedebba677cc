// Package search ties the AQL front end to the compilers and the store.
//
// A Service parses query text through the dialect and visitors, renders
// the resulting selector for both the document database and the local
// SQLite index, and caches the compiled plan by query text. Compile and
// search outcomes are counted in Prometheus metrics and published on an
// event bus.
package search
