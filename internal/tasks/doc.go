// Package tasks implements the extraction pipeline: it walks the
// authenticated user's playlists through a [services.Catalog], resolves
// each track's album and artist, and hands dependency-ordered batches to
// the storage loader. Progress is reported over a non-blocking channel
// so callers can attach a UI or ignore it entirely.
package tasks
