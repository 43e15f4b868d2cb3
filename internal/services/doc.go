// package services defines the Catalog interface for the upstream music
// catalog API and its Spotify implementation.
//
// Paginated listings are exposed as finite, restartable sequences: each
// call returns a fresh [iter.Seq2] that re-paginates from the start, so a
// fake catalog can supply a fixed in-memory sequence in tests.
package services
