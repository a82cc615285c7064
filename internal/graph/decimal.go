package graph

import "strconv"

func idDecimal(id interface{ Raw() uint64 }) string {
	return strconv.FormatUint(id.Raw(), 10)
}

func decimalToRaw(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
