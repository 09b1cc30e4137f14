package main

import (
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iahmedov/supercluster"
	"github.com/iahmedov/supercluster/internal/mbtiles"
)

var (
	exportOutput  string
	exportMinZoom int
	exportMaxZoom int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Precompute all non-empty tiles into an MBTiles archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := loadIndex()
		if err != nil {
			return err
		}

		minZoom := exportMinZoom
		maxZoom := exportMaxZoom
		if maxZoom < minZoom {
			return fmt.Errorf("max zoom %d below min zoom %d", maxZoom, minZoom)
		}

		name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		writer, err := mbtiles.Create(exportOutput, mbtiles.Metadata{
			Name:        name,
			Description: "supercluster tile export of " + inputPath,
			MinZoom:     minZoom,
			MaxZoom:     maxZoom,
		})
		if err != nil {
			return err
		}
		defer writer.Close()

		written := 0
		dim := 1 << minZoom
		for y := 0; y < dim; y++ {
			for x := 0; x < dim; x++ {
				n, err := exportTile(index, writer, maxZoom, minZoom, x, y)
				if err != nil {
					return err
				}
				written += n
			}
		}
		log.Printf("wrote %d tiles to %s", written, exportOutput)
		return nil
	},
}

// exportTile writes the tile and descends into its four children.
// A tile with no features inside its buffered bounds has no features
// in any descendant, so empty subtrees are skipped whole.
func exportTile(index *supercluster.Supercluster, writer *mbtiles.Writer, maxZoom, z, x, y int) (int, error) {
	tile, err := index.GetTile(z, x, y)
	if err != nil {
		return 0, err
	}
	if tile == nil {
		return 0, nil
	}

	data, err := json.Marshal(tile)
	if err != nil {
		return 0, fmt.Errorf("encoding tile %d/%d/%d: %w", z, x, y, err)
	}
	if err := writer.WriteTile(z, x, y, data); err != nil {
		return 0, err
	}

	written := 1
	if z < maxZoom {
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 2; dx++ {
				n, err := exportTile(index, writer, maxZoom, z+1, 2*x+dx, 2*y+dy)
				if err != nil {
					return written, err
				}
				written += n
			}
		}
	}
	return written, nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "tiles.mbtiles", "Output MBTiles file")
	exportCmd.Flags().IntVar(&exportMinZoom, "min-zoom", 0, "First zoom level to export")
	exportCmd.Flags().IntVar(&exportMaxZoom, "max-zoom", 8, "Last zoom level to export")
}
