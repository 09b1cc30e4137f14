package supercluster

import "errors"

var (
	// ErrNotFound is returned by the drill-down queries when the given
	// id does not reference a cluster in the index.
	ErrNotFound = errors.New("supercluster: no cluster with the specified id")

	// ErrInvalidZoom is returned by GetTile when the requested zoom is
	// outside [MinZoom, MaxZoom+1].
	ErrInvalidZoom = errors.New("supercluster: zoom out of range")

	// ErrInvalidInput is returned by Load for features that are not
	// finite-coordinate points.
	ErrInvalidInput = errors.New("supercluster: invalid input feature")
)
