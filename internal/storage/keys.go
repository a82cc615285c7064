package storage

import (
	"strconv"
	"strings"

	"github.com/graphdb/graphdb/internal/ids"
)

// Key schema (spec.md §4.1). All keys are colon-separated UTF-8 strings
// scoped by a namespace name.
const (
	prefixLabel    = "l"
	prefixCounter  = "c"
	prefixVertex   = "v"
	prefixEdge     = "e"
	prefixOutgoing = "o"
	prefixIncoming = "i"
)

func labelKey(ns, name string) []byte {
	return []byte(prefixLabel + ":" + ns + ":" + name)
}

func counterKey(ns, label string) []byte {
	return []byte(prefixCounter + ":" + ns + ":" + label)
}

func vertexKey(ns string, id ids.Identifier) []byte {
	return []byte(prefixVertex + ":" + ns + ":" + strconv.FormatUint(uint64(id.LabelOrdinal()), 10) + ":" + strconv.FormatUint(id.LocalOrdinal(), 10))
}

func edgeKey(ns string, id ids.Identifier) []byte {
	return []byte(prefixEdge + ":" + ns + ":" + strconv.FormatUint(uint64(id.LabelOrdinal()), 10) + ":" + strconv.FormatUint(id.LocalOrdinal(), 10))
}

func labelPrefix(ns string) []byte {
	return []byte(prefixLabel + ":" + ns + ":")
}

func vertexLabelPrefix(ns string, labid uint16) []byte {
	return []byte(prefixVertex + ":" + ns + ":" + strconv.FormatUint(uint64(labid), 10) + ":")
}

func edgeLabelPrefix(ns string, labid uint16) []byte {
	return []byte(prefixEdge + ":" + ns + ":" + strconv.FormatUint(uint64(labid), 10) + ":")
}

func outgoingKey(ns string, src, edge ids.Identifier) []byte {
	return []byte(prefixOutgoing + ":" + ns + ":" + strconv.FormatUint(src.Raw(), 10) + ":" + strconv.FormatUint(edge.Raw(), 10))
}

func incomingKey(ns string, dst, edge ids.Identifier) []byte {
	return []byte(prefixIncoming + ":" + ns + ":" + strconv.FormatUint(dst.Raw(), 10) + ":" + strconv.FormatUint(edge.Raw(), 10))
}

func outgoingPrefix(ns string, src ids.Identifier) []byte {
	return []byte(prefixOutgoing + ":" + ns + ":" + strconv.FormatUint(src.Raw(), 10) + ":")
}

func incomingPrefix(ns string, dst ids.Identifier) []byte {
	return []byte(prefixIncoming + ":" + ns + ":" + strconv.FormatUint(dst.Raw(), 10) + ":")
}

// edgeRawIDFromIndexKey extracts the raw edge identifier (the 4th
// colon-separated segment) from an adjacency index key.
func edgeRawIDFromIndexKey(key []byte) (ids.Identifier, error) {
	parts := strings.Split(string(key), ":")
	if len(parts) != 4 {
		return 0, errDatabase("malformed adjacency index key: " + string(key))
	}
	raw, err := strconv.ParseUint(parts[3], 10, 64)
	if err != nil {
		return 0, errDatabase("malformed adjacency index key: " + string(key))
	}
	return ids.FromRaw(raw), nil
}

// labelNameFromKey extracts the label name (everything after the second
// colon) from a label-catalog key.
func labelNameFromKey(key []byte) string {
	s := string(key)
	idx := strings.Index(s, ":")
	if idx < 0 {
		return ""
	}
	idx2 := strings.Index(s[idx+1:], ":")
	if idx2 < 0 {
		return ""
	}
	return s[idx+1+idx2+1:]
}
