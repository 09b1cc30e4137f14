package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iahmedov/supercluster"
	"github.com/iahmedov/supercluster/internal/config"
)

var version = "dev"

var (
	verbose    bool
	inputPath  string
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "supercluster",
	Short:   "Hierarchical geospatial point clustering",
	Long:    "Supercluster precomputes clusters of GeoJSON point features for every zoom level and answers bbox, tile and cluster drill-down queries.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Resolve(configPath)
		if err != nil {
			return err
		}
		if path == "" {
			cfg = config.Default()
			return nil
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "Path to a GeoJSON FeatureCollection of points")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(tileCmd)
	rootCmd.AddCommand(clustersCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(inspectCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("supercluster", version)
	},
}

// loadIndex reads the --input GeoJSON file and builds the zoom stack.
func loadIndex() (*supercluster.Supercluster, error) {
	if inputPath == "" {
		return nil, fmt.Errorf("no input file; pass -i points.geojson")
	}
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	var fc supercluster.FeatureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", inputPath, err)
	}

	opts := cfg.Cluster.Options()
	opts.Log = verbose
	index, err := supercluster.New(opts)
	if err != nil {
		return nil, err
	}
	if err := index.Load(fc.Features); err != nil {
		return nil, fmt.Errorf("loading %d features: %w", len(fc.Features), err)
	}
	return index, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
