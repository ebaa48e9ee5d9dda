package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/galaxysim/internal/dynamo"
)

// SnapshotSVG renders snap as an SVG scatter plot of m.Size x m.Size with
// one dot per visible particle.
func SnapshotSVG(snap dynamo.Snapshot, m Mapper, dotRadius float64) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000000"/>
<g fill="#ffffff">
`, m.Size, m.Size, m.Size, m.Size))

	for _, p := range snap.Positions {
		x, y, ok := m.Pixel(p)
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%.1f"/>
`, x, y, dotRadius))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
