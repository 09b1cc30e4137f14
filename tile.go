package supercluster

import (
	"fmt"
	"math"
)

// GetTile returns the features of the (z, x, y) vector tile, with a
// buffer of Radius/Extent around the tile so markers near edges render
// on both sides of the seam. Tiles on the antimeridian column pick up
// the wrapped fringe from the opposite side of the world. Returns
// (nil, nil) when the tile is empty.
func (sc *Supercluster) GetTile(z, x, y int) (*Tile, error) {
	if z < sc.opts.MinZoom || z > sc.opts.MaxZoom+1 {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidZoom, z, sc.opts.MinZoom, sc.opts.MaxZoom+1)
	}
	if sc.stores == nil {
		return nil, nil
	}

	tree := sc.trees[z]
	store := sc.stores[z]
	z2 := math.Exp2(float64(z))
	p := sc.opts.Radius / sc.opts.Extent
	if p > 1 {
		p = 1
	}
	top := (float64(y) - p) / z2
	bottom := (float64(y) + 1 + p) / z2

	tile := &Tile{}
	sc.addTileFeatures(tile, store,
		tree.Range((float64(x)-p)/z2, top, (float64(x)+1+p)/z2, bottom),
		float64(x), float64(y), z2)

	// the first and last columns also see the fringe wrapped across
	// the antimeridian, with coordinates offset by a world width
	if x == 0 {
		sc.addTileFeatures(tile, store,
			tree.Range(1-p/z2, top, 1, bottom),
			z2, float64(y), z2)
	}
	if float64(x) == z2-1 {
		sc.addTileFeatures(tile, store,
			tree.Range(0, top, p/z2, bottom),
			-1, float64(y), z2)
	}

	if len(tile.Features) == 0 {
		return nil, nil
	}
	return tile, nil
}

func (sc *Supercluster) addTileFeatures(tile *Tile, s *pointStore, ids []int, x, y, z2 float64) {
	extent := sc.opts.Extent
	for _, i := range ids {
		isCluster := s.numPoints[i] > 1

		var tags map[string]any
		var px, py float64
		var leafID *int64
		if isCluster {
			tags = sc.clusterProperties(s, i)
			px = s.x[i]
			py = s.y[i]
		} else {
			f := sc.points[s.index[i]]
			tags = f.Properties
			px = lngX(f.Geometry.Coordinates[0])
			py = latY(f.Geometry.Coordinates[1])
			leafID = f.ID
		}

		gx := (px*z2 - x) * extent
		gy := (py*z2 - y) * extent
		if isCluster {
			// clusters snap to integer tile pixels; leaves keep the
			// exact projected position
			gx = math.Floor(gx + 0.5)
			gy = math.Floor(gy + 0.5)
		}

		feat := TileFeature{
			Type:     1,
			Geometry: [][]float64{{gx, gy}},
			Tags:     tags,
		}
		switch {
		case isCluster, sc.opts.GenerateID:
			id := int64(s.index[i])
			feat.ID = &id
		case leafID != nil:
			feat.ID = leafID
		}
		tile.Features = append(tile.Features, feat)
	}
}
