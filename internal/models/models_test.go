package models

import "testing"

func strPtr(s string) *string {
	return &s
}

func TestValidate(t *testing.T) {
	t.Run("Artist", func(t *testing.T) {
		cases := []struct {
			name    string
			artist  Artist
			wantErr bool
		}{
			{"valid", Artist{ID: "a1", Name: "Burial", Genres: "dubstep"}, false},
			{"empty genres allowed", Artist{ID: "a1", Name: "Burial"}, false},
			{"missing ID", Artist{Name: "Burial"}, true},
			{"missing name", Artist{ID: "a1"}, true},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if err := tc.artist.Validate(); (err != nil) != tc.wantErr {
					t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
				}
			})
		}
	})

	t.Run("Album", func(t *testing.T) {
		cases := []struct {
			name    string
			album   Album
			wantErr bool
		}{
			{"valid", Album{ID: "al1", Name: "Untrue", ReleaseDate: "2007-11-05", ArtistID: "a1"}, false},
			{"missing ID", Album{ArtistID: "a1"}, true},
			{"missing artist", Album{ID: "al1"}, true},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if err := tc.album.Validate(); (err != nil) != tc.wantErr {
					t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
				}
			})
		}
	})

	t.Run("Track", func(t *testing.T) {
		cases := []struct {
			name    string
			track   Track
			wantErr bool
		}{
			{"valid", Track{ID: "t1", Name: strPtr("Archangel"), AlbumID: "al1", Popularity: 70, DurationMS: 230000}, false},
			{"nil name allowed", Track{ID: "t1", AlbumID: "al1", Popularity: 70}, false},
			{"missing ID", Track{AlbumID: "al1"}, true},
			{"missing album", Track{ID: "t1"}, true},
			{"popularity too high", Track{ID: "t1", AlbumID: "al1", Popularity: 101}, true},
			{"popularity negative", Track{ID: "t1", AlbumID: "al1", Popularity: -1}, true},
			{"negative duration", Track{ID: "t1", AlbumID: "al1", DurationMS: -1}, true},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if err := tc.track.Validate(); (err != nil) != tc.wantErr {
					t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
				}
			})
		}
	})

	t.Run("Playlist", func(t *testing.T) {
		if err := (Playlist{ID: "p1"}).Validate(); err != nil {
			t.Errorf("expected minimal playlist to validate: %v", err)
		}
		if err := (Playlist{}).Validate(); err == nil {
			t.Error("expected error for missing ID")
		}
	})

	t.Run("PlaylistTrack", func(t *testing.T) {
		if err := (PlaylistTrack{PlaylistID: "p1", TrackID: "t1"}).Validate(); err != nil {
			t.Errorf("expected pair to validate: %v", err)
		}
		if err := (PlaylistTrack{PlaylistID: "p1"}).Validate(); err == nil {
			t.Error("expected error for missing track ID")
		}
	})
}

func TestBatchSize(t *testing.T) {
	batch := &Batch{
		Artists:        []Artist{{ID: "a1", Name: "X"}},
		Albums:         []Album{{ID: "al1", ArtistID: "a1"}},
		Tracks:         []Track{{ID: "t1", AlbumID: "al1"}, {ID: "t2", AlbumID: "al1"}},
		Playlists:      []Playlist{{ID: "p1"}},
		PlaylistTracks: []PlaylistTrack{{PlaylistID: "p1", TrackID: "t1"}},
	}

	if batch.Size() != 6 {
		t.Errorf("expected size 6, got %d", batch.Size())
	}

	empty := &Batch{}
	if empty.Size() != 0 {
		t.Errorf("expected empty batch size 0, got %d", empty.Size())
	}
}
