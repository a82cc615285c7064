package storage

import "github.com/dustin/go-humanize"

// Stats summarizes one namespace's contents, for the CLI stats subcommand
// and for operators sizing a deployment. Vertex/edge counts are exact (a
// full label-catalog scan); disk usage is approximate, matching Badger's
// own Size() semantics (it reports the LSM-tree and value-log footprint,
// not a byte-exact accounting of live records).
type Stats struct {
	Namespace     string
	Labels        []LabelStats
	VertexCount   int64
	EdgeCount     int64
	LSMBytes      int64
	ValueLogBytes int64
}

// LabelStats is the vertex/edge count for one label.
type LabelStats struct {
	Label       string
	VertexCount int64
	EdgeCount   int64
}

// diskSizer is implemented by kvStore backends that can report their
// on-disk footprint; memoryKV does not (everything it holds lives in RAM).
type diskSizer interface {
	diskSize() (lsm, vlog int64)
}

// Stats scans the label catalog and every label's vertex/edge set to build
// a point-in-time summary. It takes no transaction: counts are gathered
// through the same live-read path Engine.ScanVertices/ScanEdges use
// (spec.md §9's "scan consistency" is contractual, not snapshot-isolated,
// and Stats inherits that).
func (e *Engine) Stats() (Stats, error) {
	e.mu.Lock()
	labels := make([]string, 0, len(e.labelToID))
	for name := range e.labelToID {
		labels = append(labels, name)
	}
	e.mu.Unlock()

	out := Stats{Namespace: e.ns, Labels: make([]LabelStats, 0, len(labels))}
	for _, label := range labels {
		vertices, err := e.ScanVertices(label)
		if err != nil {
			return Stats{}, err
		}
		edges, err := e.ScanEdges(label)
		if err != nil {
			return Stats{}, err
		}
		out.Labels = append(out.Labels, LabelStats{
			Label:       label,
			VertexCount: int64(len(vertices)),
			EdgeCount:   int64(len(edges)),
		})
		out.VertexCount += int64(len(vertices))
		out.EdgeCount += int64(len(edges))
	}

	if sizer, ok := e.kv.(diskSizer); ok {
		out.LSMBytes, out.ValueLogBytes = sizer.diskSize()
	}
	return out, nil
}

// String renders a Stats summary in the teacher's humanize-backed CLI
// reporting style (byte counts and vertex/edge counts as human-readable
// magnitudes rather than raw integers).
func (s Stats) String() string {
	return humanize.Comma(s.VertexCount) + " vertices, " +
		humanize.Comma(s.EdgeCount) + " edges, " +
		humanize.Bytes(uint64(s.LSMBytes+s.ValueLogBytes)) + " on disk"
}
