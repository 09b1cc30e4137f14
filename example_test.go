package supercluster_test

import (
	"fmt"

	"github.com/iahmedov/supercluster"
)

func Example() {
	index, err := supercluster.New(supercluster.Options{Radius: 60})
	if err != nil {
		panic(err)
	}
	err = index.Load([]supercluster.Feature{
		supercluster.NewPointFeature(-122.4194, 37.7749, map[string]any{"name": "San Francisco"}),
		supercluster.NewPointFeature(-122.2712, 37.8044, map[string]any{"name": "Oakland"}),
	})
	if err != nil {
		panic(err)
	}

	clusters := index.GetClusters([4]float64{-180, -85, 180, 85}, 0)
	fmt.Println(len(clusters), clusters[0].Properties["point_count"])
	// Output: 1 2
}
