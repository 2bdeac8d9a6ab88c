package grapheme

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// TabWidth is the tab stop used by the editing core.
const TabWidth = 4

// Width returns the display width of s, starting at column 0, with tab
// stops every TabWidth columns.
func Width(s string) int {
	return WidthTab(s, TabWidth)
}

// WidthTab returns the display width of s with tab stops every tab columns.
// Zero-width and combining clusters contribute nothing; wide clusters
// contribute 2.
func WidthTab(s string, tab int) int {
	if tab <= 0 {
		tab = TabWidth
	}
	col := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		col += ClusterWidth(cluster, col, tab)
	}
	return col
}

// ClusterWidth is the number of columns cluster occupies when it starts at
// column col.
func ClusterWidth(cluster string, col, tab int) int {
	if tab <= 0 {
		tab = TabWidth
	}
	if cluster == "\t" {
		return tab - col%tab
	}
	w := runewidth.StringWidth(cluster)
	if w <= 0 {
		w = max(uniseg.StringWidth(cluster), 0)
	}
	return w
}
