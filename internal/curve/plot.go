package curve

import (
	"math"
	"strings"
)

const (
	plotMark   = '•'
	plotBlank  = ' '
	plotYAxis  = "│"
	plotCorner = "└"
	plotXAxis  = "─"
)

// Plot draws the curve as a width x height character chart with axes.
// Higher proficiency is drawn nearer the top. The result has height+1
// lines: the chart rows followed by the X axis.
func (c *Curve) Plot(width, height int) string {
	width = max(width, 2)
	height = max(height, 2)

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(string(plotBlank), width))
	}

	if len(c.Points) > 0 {
		prevRow := -1
		for col := 0; col < width; col++ {
			y := c.yAt(float64(col) / float64(width-1) * 100)
			row := int(math.Round(y / 100 * float64(height-1)))
			row = min(max(row, 0), height-1)

			// Fill vertical gaps so steep segments stay connected.
			if prevRow >= 0 {
				for r := min(prevRow, row) + 1; r < max(prevRow, row); r++ {
					grid[r][col] = plotMark
				}
			}
			grid[row][col] = plotMark
			prevRow = row
		}
	}

	var b strings.Builder
	for _, line := range grid {
		b.WriteString(plotYAxis)
		b.WriteString(string(line))
		b.WriteByte('\n')
	}
	b.WriteString(plotCorner)
	b.WriteString(strings.Repeat(plotXAxis, width))
	return b.String()
}

// yAt linearly interpolates the normalized Y value at x.
func (c *Curve) yAt(x float64) float64 {
	pts := c.Points
	if len(pts) == 1 || x <= pts[0].X {
		return pts[0].Y
	}
	for i := 1; i < len(pts); i++ {
		if x <= pts[i].X {
			a, b := pts[i-1], pts[i]
			if b.X == a.X {
				return b.Y
			}
			f := (x - a.X) / (b.X - a.X)
			return a.Y + f*(b.Y-a.Y)
		}
	}
	return pts[len(pts)-1].Y
}
