package supercluster

import (
	"math"
	"sort"
)

// GetClusters returns the clusters and points whose center lies inside
// the geographic bounding box [west, south, east, north] at the given
// zoom. Out-of-range longitudes are wrapped; boxes straddling the
// antimeridian are split and the results unioned. The zoom is clamped
// to the index range, with anything above MaxZoom answered from the
// leaf level.
func (sc *Supercluster) GetClusters(bbox [4]float64, zoom int) []Feature {
	if sc.stores == nil {
		return nil
	}
	minLng := math.Mod(math.Mod(bbox[0]+180, 360)+360, 360) - 180
	minLat := math.Max(-90, math.Min(90, bbox[1]))
	maxLng := 180.0
	if bbox[2] != 180 {
		maxLng = math.Mod(math.Mod(bbox[2]+180, 360)+360, 360) - 180
	}
	maxLat := math.Max(-90, math.Min(90, bbox[3]))

	if bbox[2]-bbox[0] >= 360 {
		minLng, maxLng = -180, 180
	} else if minLng > maxLng {
		eastern := sc.GetClusters([4]float64{minLng, minLat, 180, maxLat}, zoom)
		western := sc.GetClusters([4]float64{-180, minLat, maxLng, maxLat}, zoom)
		return append(eastern, western...)
	}

	z := sc.limitZoom(zoom)
	store := sc.stores[z]
	ids := sc.trees[z].Range(lngX(minLng), latY(maxLat), lngX(maxLng), latY(minLat))

	clusters := make([]Feature, 0, len(ids))
	for _, id := range ids {
		if store.numPoints[id] > 1 {
			clusters = append(clusters, sc.clusterFeature(store, id))
		} else {
			clusters = append(clusters, sc.leafFeature(store, id))
		}
	}
	return clusters
}

// GetChildren returns the immediate children of the cluster: the
// points of the next finer zoom that were absorbed into it, in slot
// order.
func (sc *Supercluster) GetChildren(clusterID int) ([]Feature, error) {
	store, parentSlot, originZoom, err := sc.locateCluster(clusterID)
	if err != nil {
		return nil, err
	}

	originSlot := decodeOriginSlot(clusterID, len(sc.points))
	r := sc.opts.Radius / (sc.opts.Extent * math.Exp2(float64(originZoom-1)))
	ids := sc.trees[originZoom].Within(store.x[originSlot], store.y[originSlot], r)
	sort.Ints(ids)

	children := make([]Feature, 0, len(ids))
	for _, id := range ids {
		if store.parent[id] != parentSlot {
			continue
		}
		if store.numPoints[id] > 1 {
			children = append(children, sc.clusterFeature(store, id))
		} else {
			children = append(children, sc.leafFeature(store, id))
		}
	}
	if len(children) == 0 {
		return nil, ErrNotFound
	}
	return children, nil
}

// GetLeaves returns up to limit of the cluster's underlying original
// features, skipping the first offset, in depth-first child order.
// A non-positive limit defaults to 10.
func (sc *Supercluster) GetLeaves(clusterID, limit, offset int) ([]Feature, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	leaves := make([]Feature, 0, limit)
	if _, err := sc.appendLeaves(&leaves, clusterID, limit, offset, 0); err != nil {
		return nil, err
	}
	return leaves, nil
}

func (sc *Supercluster) appendLeaves(result *[]Feature, clusterID, limit, offset, skipped int) (int, error) {
	children, err := sc.GetChildren(clusterID)
	if err != nil {
		return skipped, err
	}
	for _, child := range children {
		if child.IsCluster() {
			count := child.Properties["point_count"].(int)
			if skipped+count <= offset {
				// skip the whole cluster
				skipped += count
			} else {
				skipped, err = sc.appendLeaves(result, child.Properties["cluster_id"].(int), limit, offset, skipped)
				if err != nil {
					return skipped, err
				}
			}
		} else if skipped < offset {
			skipped++
		} else {
			*result = append(*result, child)
		}
		if len(*result) == limit {
			break
		}
	}
	return skipped, nil
}

// GetClusterExpansionZoom returns the smallest zoom at which the
// cluster splits into several entries, capped at MaxZoom+1.
func (sc *Supercluster) GetClusterExpansionZoom(clusterID int) (int, error) {
	if _, _, _, err := sc.locateCluster(clusterID); err != nil {
		return 0, err
	}
	expansionZoom := decodeOriginZoom(clusterID, len(sc.points)) - 1
	for expansionZoom <= sc.opts.MaxZoom {
		children, err := sc.GetChildren(clusterID)
		if err != nil {
			return 0, err
		}
		expansionZoom++
		if len(children) != 1 || !children[0].IsCluster() {
			break
		}
		clusterID = children[0].Properties["cluster_id"].(int)
	}
	return expansionZoom, nil
}

// locateCluster resolves a cluster id to the finer store holding its
// children, the cluster's slot in the coarser store, and the finer
// store's zoom. The decoded origin slot (the cluster's first child)
// leads to the coarser slot through its parent link; the coarser
// slot's stored id is cross-checked so a stray integer cannot pass for
// a cluster.
func (sc *Supercluster) locateCluster(clusterID int) (*pointStore, int, int, error) {
	base := len(sc.points)
	if clusterID < base || sc.stores == nil {
		return nil, 0, 0, ErrNotFound
	}
	originZoom := decodeOriginZoom(clusterID, base)
	originSlot := decodeOriginSlot(clusterID, base)
	if originZoom <= sc.opts.MinZoom || originZoom > sc.opts.MaxZoom+1 {
		return nil, 0, 0, ErrNotFound
	}
	store := sc.stores[originZoom]
	if originSlot >= store.len() {
		return nil, 0, 0, ErrNotFound
	}
	parentSlot := store.parent[originSlot]
	if parentSlot < 0 {
		return nil, 0, 0, ErrNotFound
	}
	if sc.stores[originZoom-1].index[parentSlot] != clusterID {
		return nil, 0, 0, ErrNotFound
	}
	return store, parentSlot, originZoom, nil
}

func (sc *Supercluster) limitZoom(zoom int) int {
	if zoom < sc.opts.MinZoom {
		return sc.opts.MinZoom
	}
	if zoom > sc.opts.MaxZoom+1 {
		return sc.opts.MaxZoom + 1
	}
	return zoom
}

func (sc *Supercluster) clusterFeature(s *pointStore, i int) Feature {
	id := int64(s.index[i])
	return Feature{
		Type:       "Feature",
		ID:         &id,
		Properties: sc.clusterProperties(s, i),
		Geometry:   Geometry{Type: "Point", Coordinates: []float64{xLng(s.x[i]), yLat(s.y[i])}},
	}
}

func (sc *Supercluster) clusterProperties(s *pointStore, i int) map[string]any {
	count := s.numPoints[i]
	props := make(map[string]any, len(s.props[i])+4)
	for k, v := range s.props[i] {
		props[k] = v
	}
	props["cluster"] = true
	props["cluster_id"] = s.index[i]
	props["point_count"] = count
	props["point_count_abbreviated"] = abbreviateCount(count)
	return props
}

func (sc *Supercluster) leafFeature(s *pointStore, i int) Feature {
	f := sc.points[s.index[i]]
	if sc.opts.GenerateID && f.ID == nil {
		id := int64(s.index[i])
		f.ID = &id
	}
	return f
}
