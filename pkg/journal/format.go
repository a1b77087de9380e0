package journal

import "fmt"

func hex16(v uint16) string {
	return fmt.Sprintf("0x%04X", v)
}

func hexValues(vals []uint16) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = hex16(v)
	}
	return out
}
