package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	data := []byte(`
cluster:
  radius: 80
  max_zoom: 12
  min_points: 5
  generate_id: true
server:
  addr: ":9000"
`)
	cfg, err := parse(data)
	require.NoError(t, err)

	assert.Equal(t, 80.0, cfg.Cluster.Radius)
	assert.Equal(t, 12, cfg.Cluster.MaxZoom)
	assert.Equal(t, 5, cfg.Cluster.MinPoints)
	assert.True(t, cfg.Cluster.GenerateID)
	assert.Equal(t, ":9000", cfg.Server.Addr)

	// unset fields stay zero and inherit engine defaults downstream
	assert.Equal(t, 0.0, cfg.Cluster.Extent)
	assert.Equal(t, 0, cfg.Cluster.NodeSize)
}

func TestParseKeepsDefaultAddr(t *testing.T) {
	cfg, err := parse([]byte("cluster:\n  radius: 10\n"))
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.Server.Addr)
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := parse([]byte("cluster: ["))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cluster:\n  extent: 256\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 256.0, cfg.Cluster.Extent)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
	resolved, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)

	// no explicit path and no ./supercluster.yaml means defaults
	resolved, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "", resolved)
}

func TestOptions(t *testing.T) {
	c := Cluster{MinZoom: 2, MaxZoom: 10, Radius: 75, Extent: 256, MinPoints: 4, NodeSize: 32, GenerateID: true}
	opts := c.Options()

	assert.Equal(t, 2, opts.MinZoom)
	assert.Equal(t, 10, opts.MaxZoom)
	assert.Equal(t, 75.0, opts.Radius)
	assert.Equal(t, 256.0, opts.Extent)
	assert.Equal(t, 4, opts.MinPoints)
	assert.Equal(t, 32, opts.NodeSize)
	assert.True(t, opts.GenerateID)
}
