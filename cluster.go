package supercluster

import (
	"maps"
	"math"

	"github.com/iahmedov/supercluster/internal/kdbush"
)

// clusterZoom agglomerates the points of src (zoom+1) into the store
// for the given coarser zoom. It walks src in slot order, marks each
// visited point with the zoom so it is not picked up again, and merges
// every still-unabsorbed neighbor within the zoom's radius into a
// weighted cluster when the combined point count reaches MinPoints.
func (sc *Supercluster) clusterZoom(src *pointStore, tree *kdbush.Bush, zoom int) *pointStore {
	opts := sc.opts
	r := opts.Radius / (opts.Extent * math.Exp2(float64(zoom)))
	next := newPointStore(src.len())

	for i := 0; i < src.len(); i++ {
		// skip points already absorbed at this or a finer zoom
		if src.zoom[i] <= zoom {
			continue
		}
		src.zoom[i] = zoom

		x := src.x[i]
		y := src.y[i]
		neighborIDs := tree.Within(x, y, r)

		numPointsOrigin := src.numPoints[i]
		numPoints := numPointsOrigin
		for _, n := range neighborIDs {
			if src.zoom[n] > zoom {
				numPoints += src.numPoints[n]
			}
		}

		if numPoints > numPointsOrigin && numPoints >= opts.MinPoints {
			// weighted centroid over the seed and all fresh neighbors
			wx := x * float64(numPointsOrigin)
			wy := y * float64(numPointsOrigin)

			var aggregate map[string]any
			id := encodeClusterID(i, zoom+1, len(sc.points))
			slot := next.len()

			for _, n := range neighborIDs {
				if src.zoom[n] <= zoom {
					continue
				}
				src.zoom[n] = zoom

				w := float64(src.numPoints[n])
				wx += src.x[n] * w
				wy += src.y[n] * w
				src.parent[n] = slot

				if opts.Reduce != nil {
					if aggregate == nil {
						aggregate = sc.mapProps(src, i, true)
					}
					opts.Reduce(aggregate, sc.mapProps(src, n, false))
				}
			}

			src.parent[i] = slot
			next.add(wx/float64(numPoints), wy/float64(numPoints), zoomInf, id, -1, numPoints, aggregate)
		} else {
			// the point survives to the coarser level on its own; any
			// fresh neighbors below the threshold survive with it
			next.carry(src, i)
			if numPoints > 1 {
				for _, n := range neighborIDs {
					if src.zoom[n] <= zoom {
						continue
					}
					src.zoom[n] = zoom
					next.carry(src, n)
				}
			}
		}
	}

	return next
}

// mapProps returns the aggregate contribution of slot i: the stored
// aggregate for clusters, the mapped original properties for leaves.
// With clone set the result is a shallow copy safe to fold into.
func (sc *Supercluster) mapProps(s *pointStore, i int, clone bool) map[string]any {
	if s.numPoints[i] > 1 {
		if clone {
			return cloneProps(s.props[i])
		}
		return s.props[i]
	}
	original := sc.points[s.index[i]].Properties
	result := original
	if sc.opts.Map != nil {
		result = sc.opts.Map(original)
	}
	if clone {
		return cloneProps(result)
	}
	return result
}

func cloneProps(props map[string]any) map[string]any {
	if props == nil {
		return map[string]any{}
	}
	return maps.Clone(props)
}
