package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/eoslab/internal/analysis"
)

type Point struct{ X, Y float64 }

// Series is one polyline. A NaN Y breaks the line.
type Series struct {
	Name   string
	Color  string
	Points []Point
}

const (
	LiquidColor = "#4aa3ff"
	VaporColor  = "#ff9f43"
)

// IsothermSVG plots Z against P for both branches. With logP the pressure
// axis is logarithmic.
func IsothermSVG(points []analysis.IsothermPoint, width, height int, logP bool) string {
	liquid := Series{Name: "liquid", Color: LiquidColor, Points: make([]Point, len(points))}
	vapor := Series{Name: "vapor", Color: VaporColor, Points: make([]Point, len(points))}

	for i, pt := range points {
		x := pt.P
		if logP {
			x = math.Log10(pt.P)
		}
		liquid.Points[i] = Point{X: x, Y: math.NaN()}
		vapor.Points[i] = Point{X: x, Y: math.NaN()}
		if pt.Liquid != nil {
			liquid.Points[i].Y = pt.Liquid.Z
		}
		if pt.Vapor != nil {
			vapor.Points[i].Y = pt.Vapor.Z
		}
	}
	return SeriesToSVG([]Series{liquid, vapor}, width, height)
}

// SeriesToSVG draws every series on shared, padded axes. It returns "" when
// fewer than two finite points exist.
func SeriesToSVG(series []Series, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	finite := 0
	for _, s := range series {
		for _, p := range s.Points {
			if math.IsNaN(p.Y) || math.IsNaN(p.X) {
				continue
			}
			finite++
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if finite < 2 {
		return ""
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, s := range series {
		d := pathData(s.Points, func(p Point) (float64, float64) {
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)
			return x, y
		})
		if d == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path id="%s" fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, s.Name, s.Color, d))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func pathData(points []Point, project func(Point) (float64, float64)) string {
	var sb strings.Builder
	pen := false
	for _, p := range points {
		if math.IsNaN(p.Y) || math.IsNaN(p.X) {
			pen = false
			continue
		}
		x, y := project(p)
		if !pen {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
			pen = true
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	return sb.String()
}
