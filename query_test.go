package supercluster

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clusterID extracts the cluster id of a cluster feature.
func clusterID(t *testing.T, f Feature) int {
	t.Helper()
	require.True(t, f.IsCluster())
	return f.Properties["cluster_id"].(int)
}

func TestGetChildrenCountsMatchParents(t *testing.T) {
	index := newIndex(t, Options{}, randomFeatures(200, 21))

	for z := index.opts.MinZoom; z <= index.opts.MaxZoom; z++ {
		store := index.stores[z]
		for i := 0; i < store.len(); i++ {
			if store.numPoints[i] <= 1 {
				continue
			}
			children, err := index.GetChildren(store.index[i])
			require.NoError(t, err, "zoom %d slot %d", z, i)
			require.GreaterOrEqual(t, len(children), 2)

			total := 0
			for _, child := range children {
				if child.IsCluster() {
					total += child.Properties["point_count"].(int)
				} else {
					// raw leaves count as one point
					total++
				}
			}
			assert.Equal(t, store.numPoints[i], total)
		}
	}
}

func TestGetChildrenNotFound(t *testing.T) {
	index := newIndex(t, Options{}, randomFeatures(20, 6))

	_, err := index.GetChildren(0) // a raw feature index
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = index.GetChildren(1 << 30)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = index.GetLeaves(1<<30, 10, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = index.GetClusterExpansionZoom(1 << 30)
	assert.ErrorIs(t, err, ErrNotFound)
}

func blobFeatures(n int) []Feature {
	feats := make([]Feature, n)
	for i := range feats {
		feats[i] = pt(float64(i)*0.0001, float64(i)*0.0001, map[string]any{
			"name": fmt.Sprintf("point-%d", i),
		})
	}
	return feats
}

func TestGetLeavesReturnsAllUnderlyingFeatures(t *testing.T) {
	index := newIndex(t, Options{}, blobFeatures(12))

	top := index.GetClusters(world, 0)
	require.Len(t, top, 1)
	id := clusterID(t, top[0])

	leaves, err := index.GetLeaves(id, 100, 0)
	require.NoError(t, err)
	require.Len(t, leaves, 12)

	names := make(map[string]bool)
	for _, leaf := range leaves {
		assert.False(t, leaf.IsCluster())
		names[leaf.Properties["name"].(string)] = true
	}
	assert.Len(t, names, 12)
}

func TestGetLeavesPagination(t *testing.T) {
	index := newIndex(t, Options{}, blobFeatures(12))

	id := clusterID(t, index.GetClusters(world, 0)[0])
	full, err := index.GetLeaves(id, 100, 0)
	require.NoError(t, err)
	require.Len(t, full, 12)

	// pages concatenate back to the full depth-first order
	var paged []Feature
	for offset := 0; offset < 12; offset += 5 {
		page, err := index.GetLeaves(id, 5, offset)
		require.NoError(t, err)
		paged = append(paged, page...)
	}
	assert.Equal(t, full, paged)

	tail, err := index.GetLeaves(id, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, full[5:], tail)

	// default limit is 10
	page, err := index.GetLeaves(id, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page, 10)
}

func TestGetLeavesNullProperties(t *testing.T) {
	feats := blobFeatures(4)
	feats = append(feats, pt(0.00005, 0.00005, nil))
	index := newIndex(t, Options{}, feats)

	id := clusterID(t, index.GetClusters(world, 0)[0])
	leaves, err := index.GetLeaves(id, 100, 0)
	require.NoError(t, err)
	require.Len(t, leaves, 5)

	var nullLeaf *Feature
	for i := range leaves {
		if leaves[i].Properties == nil {
			nullLeaf = &leaves[i]
		}
	}
	require.NotNil(t, nullLeaf)

	data, err := json.Marshal(nullLeaf)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"properties":null`)
}

func TestClusterExpansionZoom(t *testing.T) {
	// two points one degree apart stay clustered through zoom 4 and
	// split at zoom 5
	index := newIndex(t, Options{}, []Feature{pt(0, 0, nil), pt(1, 0, nil)})

	assert.Len(t, index.GetClusters(world, 4), 1)
	assert.Len(t, index.GetClusters(world, 5), 2)

	merged := index.GetClusters(world, 4)[0]
	assert.Equal(t, 2, merged.Properties["point_count"])
	assert.InDelta(t, 0.5, merged.Geometry.Coordinates[0], 1e-9)
	assert.InDelta(t, 0, merged.Geometry.Coordinates[1], 1e-9)

	zoom, err := index.GetClusterExpansionZoom(clusterID(t, merged))
	require.NoError(t, err)
	assert.Equal(t, 5, zoom)

	// the same cluster carried to zoom 0 keeps its id and answer
	carried := index.GetClusters(world, 0)[0]
	assert.Equal(t, clusterID(t, merged), clusterID(t, carried))
}

func TestClusterExpansionZoomCapped(t *testing.T) {
	feats := []Feature{
		pt(9.4458, 47.1790, nil),
		pt(9.4458, 47.1790, nil),
	}
	index := newIndex(t, Options{MaxZoom: 4, Radius: 60, Extent: 256}, feats)

	id := clusterID(t, index.GetClusters(world, 0)[0])
	zoom, err := index.GetClusterExpansionZoom(id)
	require.NoError(t, err)
	assert.Equal(t, index.opts.MaxZoom+1, zoom)
}

func TestGetClustersClampsZoom(t *testing.T) {
	index := newIndex(t, Options{}, randomFeatures(50, 13))

	leaf := index.GetClusters(world, index.opts.MaxZoom+1)
	assert.Len(t, leaf, 50)
	assert.Equal(t, leaf, index.GetClusters(world, 99))

	coarsest := index.GetClusters(world, 0)
	assert.Equal(t, coarsest, index.GetClusters(world, -3))
}

func TestGenerateID(t *testing.T) {
	feats := []Feature{
		pt(-120, 10, nil),
		pt(0, 10, nil),
		pt(120, 10, nil),
	}
	index := newIndex(t, Options{GenerateID: true}, feats)

	clusters := index.GetClusters(world, 5)
	require.Len(t, clusters, 3)
	var ids []int64
	for _, f := range clusters {
		require.NotNil(t, f.ID)
		ids = append(ids, *f.ID)
	}
	assert.ElementsMatch(t, []int64{0, 1, 2}, ids)
}
