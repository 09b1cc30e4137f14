package supercluster

import (
	"fmt"
	"math"
)

// Feature is a GeoJSON Point feature. Properties are carried opaquely:
// the engine never inspects them except to hand them to the caller's
// map/reduce hooks and to echo them back in results. A nil Properties
// map round-trips as JSON null.
type Feature struct {
	Type       string         `json:"type"`
	ID         *int64         `json:"id,omitempty"`
	Properties map[string]any `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

// Geometry is the point geometry of a feature, [lon, lat].
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// FeatureCollection is a GeoJSON feature collection, the input and
// bbox-query output shape.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewPointFeature builds a Point feature from geographic coordinates.
func NewPointFeature(lng, lat float64, props map[string]any) Feature {
	return Feature{
		Type:       "Feature",
		Properties: props,
		Geometry:   Geometry{Type: "Point", Coordinates: []float64{lng, lat}},
	}
}

// Tile holds the features of one vector tile. Coordinates are in tile
// pixels, [0, extent) inside the tile proper plus the buffer fringe.
type Tile struct {
	Features []TileFeature `json:"features"`
}

// TileFeature is a single tile point. Cluster coordinates are rounded
// to integers; raw leaf coordinates are intentionally left unrounded.
type TileFeature struct {
	Type     int            `json:"type"`
	Geometry [][]float64    `json:"geometry"`
	Tags     map[string]any `json:"tags"`
	ID       *int64         `json:"id,omitempty"`
}

// IsCluster reports whether a query-result feature represents a
// cluster rather than an original input point.
func (f Feature) IsCluster() bool {
	c, _ := f.Properties["cluster"].(bool)
	return c
}

// abbreviateCount shortens a point count for display: numbers below
// 1000 stay numeric, 1234 becomes "1.2k", 12345 becomes "12k".
func abbreviateCount(n int) any {
	switch {
	case n >= 10000:
		return fmt.Sprintf("%dk", int(math.Round(float64(n)/1000)))
	case n >= 1000:
		return fmt.Sprintf("%gk", math.Round(float64(n)/100)/10)
	default:
		return n
	}
}
