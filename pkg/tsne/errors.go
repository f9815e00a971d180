package tsne

import "errors"

var (
	// ErrUnsupportedDimension indicates a requested embedding dimension other than 2 or 3.
	ErrUnsupportedDimension = errors.New("tsne: embedding dimension must be 2 or 3")
	// ErrUninitialized indicates Step or InitSolution was called before InitDataDist.
	ErrUninitialized = errors.New("tsne: engine has no input distribution")
	// ErrInvalidNeighbors indicates an empty, ragged, or out-of-range neighbor table.
	ErrInvalidNeighbors = errors.New("tsne: invalid neighbor table")
)
