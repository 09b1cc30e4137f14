package supercluster

import "math"

// zoomInf marks a point that has not been absorbed by any cluster yet.
const zoomInf = math.MaxInt32

// pointStore holds one zoom level's points as parallel arrays. Slots
// keep input order; the KDBush built over x/y reorders only its own
// copies and reports slot indices back.
type pointStore struct {
	x, y      []float64
	zoom      []int // zoom at which the slot was absorbed, zoomInf while alive
	index     []int // leaf: original feature index; cluster: encoded cluster id
	parent    []int // slot of the absorbing cluster in the next coarser store, -1 if none
	numPoints []int
	props     []map[string]any // aggregated properties for clusters, nil otherwise
}

func newPointStore(capacity int) *pointStore {
	return &pointStore{
		x:         make([]float64, 0, capacity),
		y:         make([]float64, 0, capacity),
		zoom:      make([]int, 0, capacity),
		index:     make([]int, 0, capacity),
		parent:    make([]int, 0, capacity),
		numPoints: make([]int, 0, capacity),
		props:     make([]map[string]any, 0, capacity),
	}
}

func (s *pointStore) len() int { return len(s.x) }

// add appends a slot and returns its index.
func (s *pointStore) add(x, y float64, zoom, index, parent, numPoints int, props map[string]any) int {
	s.x = append(s.x, x)
	s.y = append(s.y, y)
	s.zoom = append(s.zoom, zoom)
	s.index = append(s.index, index)
	s.parent = append(s.parent, parent)
	s.numPoints = append(s.numPoints, numPoints)
	s.props = append(s.props, props)
	return len(s.x) - 1
}

// carry appends slot i of src unchanged, as a point that survives to
// the coarser level on its own.
func (s *pointStore) carry(src *pointStore, i int) {
	s.add(src.x[i], src.y[i], zoomInf, src.index[i], -1, src.numPoints[i], src.props[i])
}
