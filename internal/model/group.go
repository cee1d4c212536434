package model

// Group names one side of a decile partition.
// Keep these values stable; they are intended for CSV and JSON output.
type Group string

const (
	GroupTop    Group = "TOP"
	GroupBottom Group = "BOTTOM"
)

// Better reports whether rate a ranks ahead of rate b within the group:
// higher rates lead the top group, lower rates lead the bottom group.
func (g Group) Better(a, b float64) bool {
	if g == GroupBottom {
		return a < b
	}
	return a > b
}
