// Package geom provides the geometry kernel shared by feature generators and
// the water-area filler: 3D Bresenham rasterization, diagonal-rail
// smoothing, and polygon rasterize/seal/clip operations. Grounded on
// original_source's src/bresenham.rs driving-axis tie-break and
// src/element_processing/railways.rs's smooth_diagonal_rails.
package geom

// Point3 is an integer lattice point in world-block coordinates.
type Point3 struct {
	X, Y, Z int
}

// Line3D rasterizes the 3D Bresenham line between a and b, inclusive of both
// endpoints. The dominant axis (greatest absolute delta) drives the walk;
// ties are broken X > Z > Y.
func Line3D(a, b Point3) []Point3 {
	dx := abs(b.X - a.X)
	dy := abs(b.Y - a.Y)
	dz := abs(b.Z - a.Z)

	// Dominant axis selection with X > Z > Y tie-break.
	var driving byte
	var longest int
	switch {
	case dx >= dz && dx >= dy:
		driving = 'x'
		longest = dx
	case dz >= dx && dz >= dy:
		driving = 'z'
		longest = dz
	default:
		driving = 'y'
		longest = dy
	}

	if longest == 0 {
		return []Point3{a}
	}

	points := make([]Point3, 0, longest+1)

	sx := sign(b.X - a.X)
	sy := sign(b.Y - a.Y)
	sz := sign(b.Z - a.Z)

	// Standard multi-axis Bresenham: drive along the dominant axis, and
	// accumulate error for the other two so they step at the right time.
	var errX, errY, errZ int
	switch driving {
	case 'x':
		errY = dx / 2
		errZ = dx / 2
	case 'z':
		errX = dz / 2
		errY = dz / 2
	case 'y':
		errX = dy / 2
		errZ = dy / 2
	}

	x, y, z := a.X, a.Y, a.Z
	for i := 0; i <= longest; i++ {
		points = append(points, Point3{X: x, Y: y, Z: z})
		switch driving {
		case 'x':
			x += sx
			errY += dy
			if errY >= dx {
				errY -= dx
				y += sy
			}
			errZ += dz
			if errZ >= dx {
				errZ -= dx
				z += sz
			}
		case 'z':
			z += sz
			errX += dx
			if errX >= dz {
				errX -= dz
				x += sx
			}
			errY += dy
			if errY >= dz {
				errY -= dz
				y += sy
			}
		case 'y':
			y += sy
			errX += dx
			if errX >= dy {
				errX -= dy
				x += sx
			}
			errZ += dz
			if errZ >= dy {
				errZ -= dy
				z += sz
			}
		}
	}
	return points
}

// RailOrientation picks the default axis smoothing follows when a 2-point
// diagonal has neither predecessor nor successor context.
type RailOrientation int

const (
	// Horizontal steps along X first, keeping the current Z (matches the
	// original's final "default to horizontal first" fallback).
	Horizontal RailOrientation = iota
	Vertical
)

// SmoothDiagonalRails inserts an axis-aligned intermediate point between any
// two diagonally adjacent points in a unit-step lattice polyline, so rail
// generators never need to render a true diagonal. The intermediate point
// continues the incoming axis when known, else the outgoing axis, else
// defaultOrientation.
func SmoothDiagonalRails(points []Point3, defaultOrientation RailOrientation) []Point3 {
	smoothed := make([]Point3, 0, len(points)*2)
	for i, current := range points {
		smoothed = append(smoothed, current)
		if i+1 >= len(points) {
			continue
		}
		next := points[i+1]
		x1, y1, z1 := current.X, current.Y, current.Z
		x2, z2 := next.X, next.Z

		if abs(x2-x1) == 1 && abs(z2-z1) == 1 {
			var intermediate Point3
			switch {
			case i > 0 && points[i-1].X == x1:
				// Coming from vertical: keep x constant.
				intermediate = Point3{X: x1, Y: y1, Z: z2}
			case i > 0:
				// Coming from horizontal: keep z constant.
				intermediate = Point3{X: x2, Y: y1, Z: z1}
			case i+2 < len(points) && points[i+2].X == x2:
				// Going to vertical: keep x constant.
				intermediate = Point3{X: x2, Y: y1, Z: z1}
			case i+2 < len(points):
				// Going to horizontal: keep z constant.
				intermediate = Point3{X: x1, Y: y1, Z: z2}
			default:
				if defaultOrientation == Horizontal {
					intermediate = Point3{X: x2, Y: y1, Z: z1}
				} else {
					intermediate = Point3{X: x1, Y: y1, Z: z2}
				}
			}
			smoothed = append(smoothed, intermediate)
		}
	}
	return smoothed
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
