package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

var tileCmd = &cobra.Command{
	Use:   "tile <z> <x> <y>",
	Short: "Print the features of one tile as JSON",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		coords := make([]int, 3)
		for i, arg := range args {
			v, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("tile coordinate %q is not an integer", arg)
			}
			coords[i] = v
		}

		index, err := loadIndex()
		if err != nil {
			return err
		}
		tile, err := index.GetTile(coords[0], coords[1], coords[2])
		if err != nil {
			return err
		}
		return printJSON(tile)
	},
}

var (
	clustersBBox string
	clustersZoom int
)

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Print the clusters inside a bounding box as GeoJSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		parts := strings.Split(clustersBBox, ",")
		if len(parts) != 4 {
			return fmt.Errorf("bbox must be west,south,east,north")
		}
		var bbox [4]float64
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return fmt.Errorf("bbox value %q is not a number", part)
			}
			bbox[i] = v
		}

		index, err := loadIndex()
		if err != nil {
			return err
		}
		features := index.GetClusters(bbox, clustersZoom)
		return printJSON(map[string]any{
			"type":     "FeatureCollection",
			"features": features,
		})
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show per-zoom point and cluster counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := loadIndex()
		if err != nil {
			return err
		}
		stats := index.Stats()
		for _, st := range stats {
			fmt.Printf("z%-2d  %6d points  %6d clusters\n", st.Zoom, st.Points, st.Clusters)
		}
		if verbose {
			spew.Dump(stats)
		}
		return nil
	},
}

func init() {
	clustersCmd.Flags().StringVar(&clustersBBox, "bbox", "-180,-90,180,90", "Bounding box west,south,east,north")
	clustersCmd.Flags().IntVar(&clustersZoom, "zoom", 0, "Zoom level")
}
