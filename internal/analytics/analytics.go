package analytics

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// Query is a named, parameterless read-only query over the library schema.
type Query struct {
	Name        string
	Description string
	SQL         string
}

// Result is an executed query: column names plus rows stringified for
// display. NULL values render as empty strings.
type Result struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Catalog returns the full query catalog in display order.
func Catalog() []Query {
	return []Query{
		{
			Name:        "playlist-track-counts",
			Description: "Tracks per playlist, ranked by stored track count",
			SQL: `SELECT p.name AS playlist, COUNT(pt.track_id) AS track_count
FROM playlists p
LEFT JOIN playlist_tracks pt ON pt.playlist_id = p.playlist_id
GROUP BY p.playlist_id, p.name
ORDER BY track_count DESC, playlist`,
		},
		{
			Name:        "top-tracks",
			Description: "Top 10 tracks by popularity",
			SQL: `SELECT COALESCE(t.name, 'Unknown Track') AS track, ar.name AS artist, t.popularity
FROM tracks t
JOIN albums al ON al.album_id = t.album_id
JOIN artists ar ON ar.artist_id = al.artist_id
ORDER BY t.popularity DESC, track
LIMIT 10`,
		},
		{
			Name:        "artist-popularity-tiers",
			Description: "Average track popularity per artist with a tier label",
			SQL: `SELECT ar.name AS artist,
    ROUND(AVG(t.popularity), 1) AS avg_popularity,
    CASE
        WHEN AVG(t.popularity) >= 80 THEN '🔥 Superstar'
        WHEN AVG(t.popularity) >= 60 THEN '⭐ Rising Artist'
        ELSE '🎧 Emerging Artist'
    END AS tier
FROM artists ar
JOIN albums al ON al.artist_id = ar.artist_id
JOIN tracks t ON t.album_id = al.album_id
GROUP BY ar.artist_id, ar.name
ORDER BY avg_popularity DESC, artist`,
		},
		{
			Name:        "playlist-artist-diversity",
			Description: "Distinct artists as a percentage of playlist tracks",
			SQL: `SELECT p.name AS playlist,
    ROUND(COUNT(DISTINCT al.artist_id) * 100.0 / NULLIF(COUNT(pt.track_id), 0), 1) AS diversity_pct
FROM playlists p
LEFT JOIN playlist_tracks pt ON pt.playlist_id = p.playlist_id
LEFT JOIN tracks t ON t.track_id = pt.track_id
LEFT JOIN albums al ON al.album_id = t.album_id
GROUP BY p.playlist_id, p.name
ORDER BY diversity_pct DESC, playlist`,
		},
		{
			Name:        "explicit-content-share",
			Description: "Share of explicit tracks across the whole library",
			SQL: `SELECT COUNT(*) AS tracks,
    SUM(CASE WHEN explicit THEN 1 ELSE 0 END) AS explicit_tracks,
    ROUND(SUM(CASE WHEN explicit THEN 1 ELSE 0 END) * 100.0 / NULLIF(COUNT(*), 0), 1) AS explicit_pct
FROM tracks`,
		},
		{
			Name:        "most-featured-artists",
			Description: "Artists ranked by distinct playlist appearances",
			SQL: `SELECT ar.name AS artist, COUNT(DISTINCT pt.playlist_id) AS playlist_count
FROM artists ar
JOIN albums al ON al.artist_id = ar.artist_id
JOIN tracks t ON t.album_id = al.album_id
JOIN playlist_tracks pt ON pt.track_id = t.track_id
GROUP BY ar.artist_id, ar.name
ORDER BY playlist_count DESC, artist`,
		},
		{
			Name:        "popularity-dense-rank",
			Description: "Tracks ranked by popularity without rank gaps",
			SQL: `SELECT COALESCE(name, 'Unknown Track') AS track, popularity,
    DENSE_RANK() OVER (ORDER BY popularity DESC) AS popularity_rank
FROM tracks
ORDER BY popularity_rank, track`,
		},
		{
			Name:        "artist-release-history",
			Description: "Per-artist album sequence with the previous release date",
			SQL: `SELECT ar.name AS artist, al.name AS album, al.release_date,
    LAG(al.release_date) OVER (PARTITION BY al.artist_id ORDER BY al.release_date) AS previous_release
FROM albums al
JOIN artists ar ON ar.artist_id = al.artist_id
ORDER BY artist, al.release_date`,
		},
		{
			Name:        "playlist-size-categories",
			Description: "Playlists labeled short or large at a 20-track boundary",
			SQL: `SELECT name AS playlist, num_tracks, 'Short Playlist' AS category
FROM playlists
WHERE num_tracks < 20
UNION
SELECT name, num_tracks, 'Large Playlist'
FROM playlists
WHERE num_tracks >= 20
ORDER BY num_tracks DESC, playlist`,
		},
		{
			Name:        "release-years",
			Description: "Distinct album release years",
			SQL: `SELECT DISTINCT strftime('%Y', release_date) AS release_year
FROM albums
WHERE release_date IS NOT NULL AND release_date != ''
ORDER BY release_year`,
		},
		{
			Name:        "track-display-names",
			Description: "Track names with NULLs coalesced for display",
			SQL: `SELECT track_id, COALESCE(name, 'Unknown Track') AS display_name
FROM tracks
ORDER BY display_name, track_id`,
		},
	}
}

// Lookup finds a catalog query by name.
func Lookup(name string) (Query, bool) {
	for _, query := range Catalog() {
		if query.Name == name {
			return query, true
		}
	}
	return Query{}, false
}

// Run executes a catalog query by name.
func Run(db *sql.DB, name string) (*Result, error) {
	query, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown query: %s", name)
	}

	rows, err := db.Query(query.SQL)
	if err != nil {
		return nil, fmt.Errorf("failed to run query %s: %w", name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := &Result{Name: name, Columns: columns}

	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]string, len(columns))
		for i, value := range values {
			row[i] = stringify(value)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return result, nil
}

// stringify renders a scanned driver value for display.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
