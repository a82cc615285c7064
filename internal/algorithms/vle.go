package algorithms

import (
	"github.com/graphdb/graphdb/internal/graph"
	"github.com/graphdb/graphdb/internal/ids"
	"github.com/graphdb/graphdb/internal/storage"
)

// VLEOptions bounds a variable-length expansion (spec.md §4.8).
type VLEOptions struct {
	MinLength   int
	MaxLength   int
	AllowCycles bool
	// MaxPaths caps the number of returned paths; 0 means unlimited.
	MaxPaths int
}

// VariableLengthExpand enumerates paths from start whose length falls
// within [MinLength, MaxLength], via bounded BFS over partial paths: at
// each step the last vertex is expanded through its outgoing edges, and
// (unless AllowCycles) an extension revisiting a vertex already in the
// path is skipped. Output order matches BFS expansion order.
func VariableLengthExpand(store storage.GraphStorage, start ids.Identifier, opts VLEOptions) ([]graph.Path, error) {
	if opts.MinLength > opts.MaxLength {
		return nil, errInvalidParameters("min_length cannot be greater than max_length")
	}
	if opts.MaxLength == 0 {
		return nil, errInvalidParameters("max_length must be at least 1")
	}

	startVertex, ok, err := store.GetVertex(start)
	if err != nil {
		return nil, wrapStorageErr(err)
	}
	if !ok {
		return nil, errInvalidParameters("start vertex %s not found", start)
	}

	var results []graph.Path
	queue := []graph.Path{graph.NewPath(startVertex)}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		length := path.Len()

		if length >= opts.MinLength {
			results = append(results, path)
			if opts.MaxPaths > 0 && len(results) >= opts.MaxPaths {
				break
			}
		}

		if length >= opts.MaxLength {
			continue
		}

		edges, err := store.GetOutgoingEdges(path.End().ID)
		if err != nil {
			return nil, wrapStorageErr(err)
		}
		for _, e := range edges {
			if !opts.AllowCycles && path.ContainsVertex(e.End) {
				continue
			}
			nextVertex, ok, err := store.GetVertex(e.End)
			if err != nil {
				return nil, wrapStorageErr(err)
			}
			if !ok {
				continue
			}
			extended, err := path.Extend(e, nextVertex)
			if err != nil {
				return nil, wrapStorageErr(err)
			}
			queue = append(queue, extended)
		}
	}

	return results, nil
}

// VariableLengthPathsBetween runs VariableLengthExpand from start and keeps
// only the paths ending at end; if none remain, fails with PathNotFound.
func VariableLengthPathsBetween(store storage.GraphStorage, start, end ids.Identifier, opts VLEOptions) ([]graph.Path, error) {
	all, err := VariableLengthExpand(store, start, opts)
	if err != nil {
		return nil, err
	}

	var filtered []graph.Path
	for _, p := range all {
		if p.End().ID == end {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		return nil, errPathNotFound(start, end)
	}
	return filtered, nil
}

// KHopNeighbors returns the distinct set of vertices reachable from start in
// exactly k hops.
func KHopNeighbors(store storage.GraphStorage, start ids.Identifier, k int) (map[ids.Identifier]bool, error) {
	if k == 0 {
		return map[ids.Identifier]bool{start: true}, nil
	}
	paths, err := VariableLengthExpand(store, start, VLEOptions{MinLength: k, MaxLength: k})
	if err != nil {
		return nil, err
	}
	return distinctEndpoints(paths), nil
}

// NeighborsWithinKHops returns the distinct set of vertices reachable from
// start within k hops (1..=k).
func NeighborsWithinKHops(store storage.GraphStorage, start ids.Identifier, k int) (map[ids.Identifier]bool, error) {
	paths, err := VariableLengthExpand(store, start, VLEOptions{MinLength: 1, MaxLength: k})
	if err != nil {
		return nil, err
	}
	return distinctEndpoints(paths), nil
}

func distinctEndpoints(paths []graph.Path) map[ids.Identifier]bool {
	out := make(map[ids.Identifier]bool, len(paths))
	for _, p := range paths {
		out[p.End().ID] = true
	}
	return out
}
