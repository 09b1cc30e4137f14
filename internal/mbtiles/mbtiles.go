// Package mbtiles writes precomputed cluster tiles into an MBTiles
// 1.3 archive: a SQLite database with a metadata table and a tiles
// table keyed by zoom/column/row, rows counted from the bottom (TMS).
package mbtiles

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE metadata (name TEXT, value TEXT);
CREATE TABLE tiles (zoom_level INTEGER, tile_column INTEGER, tile_row INTEGER, tile_data BLOB);
CREATE UNIQUE INDEX tile_index ON tiles (zoom_level, tile_column, tile_row);
`

// Metadata describes the archive.
type Metadata struct {
	Name        string
	Description string
	MinZoom     int
	MaxZoom     int
}

// Writer is a write-once MBTiles archive.
type Writer struct {
	db *sql.DB
}

// Create makes a fresh archive at path, failing if the file exists.
func Create(path string, meta Metadata) (*Writer, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("mbtiles: %s already exists", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=OFF"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	rows := [][2]string{
		{"name", meta.Name},
		{"description", meta.Description},
		{"format", "json"},
		{"type", "overlay"},
		{"version", "1"},
		{"minzoom", strconv.Itoa(meta.MinZoom)},
		{"maxzoom", strconv.Itoa(meta.MaxZoom)},
	}
	for _, row := range rows {
		if _, err := db.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", row[0], row[1]); err != nil {
			db.Close()
			return nil, fmt.Errorf("writing metadata %s: %w", row[0], err)
		}
	}

	return &Writer{db: db}, nil
}

// WriteTile stores one tile payload. The y coordinate is XYZ (top
// origin) and is flipped to the TMS row the format stores.
func (w *Writer) WriteTile(z, x, y int, data []byte) error {
	row := (1 << z) - 1 - y
	_, err := w.db.Exec(
		"INSERT INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?)",
		z, x, row, data)
	if err != nil {
		return fmt.Errorf("writing tile %d/%d/%d: %w", z, x, y, err)
	}
	return nil
}

// Close finalizes the archive.
func (w *Writer) Close() error {
	return w.db.Close()
}
