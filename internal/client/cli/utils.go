package cli

import (
	"io"
	"text/tabwriter"
	"time"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// move returns a copy of items with the element at from moved to to.
func move[T any](items []T, from, to int) []T {
	out := make([]T, 0, len(items))
	for i, item := range items {
		if i != from {
			out = append(out, item)
		}
	}
	out = append(out[:to], append([]T{items[from]}, out[to:]...)...)
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}
