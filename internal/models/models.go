package models

import "fmt"

// Artist is a catalog artist. Genres is a comma-joined list and may be
// empty until the genre backfill replaces it with the sentinel value.
type Artist struct {
	ID     string
	Name   string
	Genres string
}

// Validate checks that the artist can be persisted.
func (a Artist) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("artist ID is required")
	}
	if a.Name == "" {
		return fmt.Errorf("artist name is required")
	}
	return nil
}

// Album is a catalog album. ReleaseDate is the ISO date string exactly as
// returned by the upstream API.
type Album struct {
	ID          string
	Name        string
	ReleaseDate string
	ArtistID    string
}

// Validate checks that the album can be persisted.
func (a Album) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("album ID is required")
	}
	if a.ArtistID == "" {
		return fmt.Errorf("album %s has no artist", a.ID)
	}
	return nil
}

// Track is a catalog track. Name is a pointer because the upstream API
// can return a null name; the null is stored as-is and only coalesced for
// display by the query library.
type Track struct {
	ID         string
	Name       *string
	AlbumID    string
	Popularity int
	DurationMS int
	Explicit   bool
}

// Validate checks that the track can be persisted.
func (t Track) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("track ID is required")
	}
	if t.AlbumID == "" {
		return fmt.Errorf("track %s has no album", t.ID)
	}
	if t.Popularity < 0 || t.Popularity > 100 {
		return fmt.Errorf("track %s popularity %d out of range", t.ID, t.Popularity)
	}
	if t.DurationMS < 0 {
		return fmt.Errorf("track %s has negative duration", t.ID)
	}
	return nil
}

// Playlist is a user playlist. NumTracks is the track count reported by
// the upstream API at fetch time.
type Playlist struct {
	ID        string
	Name      string
	Owner     string
	NumTracks int
}

// Validate checks that the playlist can be persisted.
func (p Playlist) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("playlist ID is required")
	}
	return nil
}

// PlaylistTrack is a playlist membership row keyed by the
// (playlist_id, track_id) pair.
type PlaylistTrack struct {
	PlaylistID string
	TrackID    string
}

// Validate checks that the membership row can be persisted.
func (pt PlaylistTrack) Validate() error {
	if pt.PlaylistID == "" || pt.TrackID == "" {
		return fmt.Errorf("playlist track requires both IDs")
	}
	return nil
}

// Batch holds one extraction run's deduplicated entities in the order the
// loader must apply them: foreign-key targets always precede referencing
// rows.
type Batch struct {
	Artists        []Artist
	Albums         []Album
	Tracks         []Track
	Playlists      []Playlist
	PlaylistTracks []PlaylistTrack
}

// Size returns the total number of entities in the batch.
func (b *Batch) Size() int {
	return len(b.Artists) + len(b.Albums) + len(b.Tracks) + len(b.Playlists) + len(b.PlaylistTracks)
}
