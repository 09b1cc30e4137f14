// Package supercluster is a hierarchical geospatial point-clustering
// engine. Load projects point features onto the unit-square mercator
// plane and precomputes, for every zoom level in the configured range,
// the set of clusters such that no two cluster centers are closer than
// a fixed pixel radius at that zoom. The loaded index is immutable and
// answers bounding-box, tile and cluster drill-down queries.
package supercluster

import (
	"fmt"
	"log"
	"math"

	"github.com/iahmedov/supercluster/internal/kdbush"
)

// Default option values, matching the reference engine.
const (
	DefaultMinZoom   = 0
	DefaultMaxZoom   = 16
	DefaultMinPoints = 2
	DefaultRadius    = 40
	DefaultExtent    = 512
	DefaultNodeSize  = 64
)

// MapFunc derives the aggregate seed from a raw point's properties.
type MapFunc func(props map[string]any) map[string]any

// ReduceFunc folds a contribution into the accumulated cluster
// properties in place. It must be associative in the traversal order
// used by the engine; the engine never reshuffles calls.
type ReduceFunc func(accumulated, props map[string]any)

// Options configure an index. The zero value of a numeric field means
// "use the default"; New applies defaults, so a zero-value Options is
// a fully working configuration.
type Options struct {
	MinZoom   int     // minimum zoom level at which clusters are generated
	MaxZoom   int     // maximum zoom level at which clusters are generated
	MinPoints int     // minimum number of underlying points to form a cluster
	Radius    float64 // cluster radius in pixels at Extent resolution
	Extent    float64 // tile extent; radius is calculated relative to it
	NodeSize  int     // size of the KDBush leaf node

	// GenerateID assigns each input feature its load index as id in
	// GetClusters, GetChildren and GetLeaves output when the feature
	// carries none of its own. In GetTile output every leaf gets its
	// load index as id, whether or not it carries its own.
	GenerateID bool

	// Log enables per-zoom progress logging during Load.
	Log bool

	// Map and Reduce implement custom property aggregation. Reduce
	// turns aggregation on; Map defaults to the identity.
	Map    MapFunc
	Reduce ReduceFunc
}

func (o *Options) applyDefaults() {
	if o.MaxZoom == 0 {
		o.MaxZoom = DefaultMaxZoom
	}
	if o.MinPoints == 0 {
		o.MinPoints = DefaultMinPoints
	}
	if o.Radius == 0 {
		o.Radius = DefaultRadius
	}
	if o.Extent == 0 {
		o.Extent = DefaultExtent
	}
	if o.NodeSize == 0 {
		o.NodeSize = DefaultNodeSize
	}
}

// Supercluster owns the per-zoom stack of point stores and spatial
// indexes. Load performs all mutation; afterwards the index is
// immutable and all query methods are safe for concurrent use.
type Supercluster struct {
	opts   Options
	points []Feature

	// stores[z] and trees[z] hold zoom z, for z in [MinZoom, MaxZoom+1];
	// MaxZoom+1 is the leaf level carrying every input point.
	stores []*pointStore
	trees  []*kdbush.Bush
}

// New creates an empty index with the given options.
func New(opts Options) (*Supercluster, error) {
	opts.applyDefaults()
	if opts.MinZoom < 0 || opts.MinZoom > opts.MaxZoom {
		return nil, fmt.Errorf("supercluster: min zoom %d out of range [0, %d]", opts.MinZoom, opts.MaxZoom)
	}
	// the id encoding keeps the origin zoom in 5 bits
	if opts.MaxZoom > 30 {
		return nil, fmt.Errorf("supercluster: max zoom %d exceeds 30", opts.MaxZoom)
	}
	if opts.MinPoints < 2 {
		return nil, fmt.Errorf("supercluster: min points %d must be at least 2", opts.MinPoints)
	}
	return &Supercluster{opts: opts}, nil
}

// Load builds the zoom stack for the given point features, replacing
// any previously loaded data. Features must be finite-coordinate
// Points; properties are kept by reference and must not be mutated by
// the caller afterwards.
func (sc *Supercluster) Load(features []Feature) error {
	opts := sc.opts

	leaf := newPointStore(len(features))
	for i, f := range features {
		if f.Geometry.Type != "Point" || len(f.Geometry.Coordinates) < 2 {
			return fmt.Errorf("%w: feature %d is not a point", ErrInvalidInput, i)
		}
		lng := f.Geometry.Coordinates[0]
		lat := f.Geometry.Coordinates[1]
		if !isFinite(lng) || !isFinite(lat) {
			return fmt.Errorf("%w: feature %d has non-finite coordinates", ErrInvalidInput, i)
		}
		leaf.add(lngX(lng), latY(lat), zoomInf, i, -1, 1, nil)
	}

	sc.points = features
	sc.stores = make([]*pointStore, opts.MaxZoom+2)
	sc.trees = make([]*kdbush.Bush, opts.MaxZoom+2)

	sc.stores[opts.MaxZoom+1] = leaf
	sc.trees[opts.MaxZoom+1] = kdbush.New(leaf.x, leaf.y, opts.NodeSize)
	if opts.Log {
		log.Printf("z%d: %d points (leaf level)", opts.MaxZoom+1, leaf.len())
	}

	// cluster points on max zoom, then cluster the results on previous
	// zoom, and so on, all the way down to min zoom
	for z := opts.MaxZoom; z >= opts.MinZoom; z-- {
		next := sc.clusterZoom(sc.stores[z+1], sc.trees[z+1], z)
		sc.stores[z] = next
		sc.trees[z] = kdbush.New(next.x, next.y, opts.NodeSize)
		if opts.Log {
			log.Printf("z%d: %d points", z, next.len())
		}
	}
	return nil
}

// ZoomStats summarizes one zoom level of a loaded index.
type ZoomStats struct {
	Zoom     int
	Points   int // total entries in the level's store
	Clusters int // entries representing more than one input point
}

// Stats reports per-zoom entry counts, finest level first.
func (sc *Supercluster) Stats() []ZoomStats {
	if sc.stores == nil {
		return nil
	}
	stats := make([]ZoomStats, 0, sc.opts.MaxZoom+2-sc.opts.MinZoom)
	for z := sc.opts.MaxZoom + 1; z >= sc.opts.MinZoom; z-- {
		s := sc.stores[z]
		st := ZoomStats{Zoom: z, Points: s.len()}
		for i := 0; i < s.len(); i++ {
			if s.numPoints[i] > 1 {
				st.Clusters++
			}
		}
		stats = append(stats, st)
	}
	return stats
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
