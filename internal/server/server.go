// Package server exposes a loaded cluster index over HTTP: tiles by
// z/x/y, bbox cluster queries, and the cluster drill-down operations.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/iahmedov/supercluster"
)

// Server serves read-only queries against one immutable index.
type Server struct {
	index *supercluster.Supercluster
	mux   *http.ServeMux
}

// New creates a server over a loaded index.
func New(index *supercluster.Supercluster) *Server {
	s := &Server{index: index, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /tiles/{z}/{x}/{y}", s.handleTile)
	s.mux.HandleFunc("GET /clusters", s.handleClusters)
	s.mux.HandleFunc("GET /children", s.handleChildren)
	s.mux.HandleFunc("GET /leaves", s.handleLeaves)
	s.mux.HandleFunc("GET /expansion-zoom", s.handleExpansionZoom)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	z, errZ := strconv.Atoi(r.PathValue("z"))
	x, errX := strconv.Atoi(r.PathValue("x"))
	y, errY := strconv.Atoi(strings.TrimSuffix(r.PathValue("y"), ".json"))
	if errZ != nil || errX != nil || errY != nil {
		writeError(w, http.StatusBadRequest, "tile coordinates must be integers")
		return
	}

	tile, err := s.index.GetTile(z, x, y)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if tile == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("tile %d/%d/%d is empty", z, x, y))
		return
	}
	writeJSON(w, http.StatusOK, tile)
}

func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Query().Get("bbox"), ",")
	if len(parts) != 4 {
		writeError(w, http.StatusBadRequest, "bbox must be west,south,east,north")
		return
	}
	var bbox [4]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bbox must be west,south,east,north")
			return
		}
		bbox[i] = v
	}
	zoom, err := strconv.Atoi(r.URL.Query().Get("zoom"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "zoom must be an integer")
		return
	}

	features := s.index.GetClusters(bbox, zoom)
	writeJSON(w, http.StatusOK, supercluster.FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	})
}

func (s *Server) handleChildren(w http.ResponseWriter, r *http.Request) {
	clusterID, ok := clusterIDParam(w, r)
	if !ok {
		return
	}
	children, err := s.index.GetChildren(clusterID)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, children)
}

func (s *Server) handleLeaves(w http.ResponseWriter, r *http.Request) {
	clusterID, ok := clusterIDParam(w, r)
	if !ok {
		return
	}
	limit := intParam(r, "limit", 10)
	offset := intParam(r, "offset", 0)
	leaves, err := s.index.GetLeaves(clusterID, limit, offset)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leaves)
}

func (s *Server) handleExpansionZoom(w http.ResponseWriter, r *http.Request) {
	clusterID, ok := clusterIDParam(w, r)
	if !ok {
		return
	}
	zoom, err := s.index.GetClusterExpansionZoom(clusterID)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"expansion_zoom": zoom})
}

func clusterIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.URL.Query().Get("cluster_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cluster_id must be an integer")
		return 0, false
	}
	return id, true
}

func intParam(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return fallback
	}
	return v
}

func writeQueryError(w http.ResponseWriter, err error) {
	if errors.Is(err, supercluster.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
