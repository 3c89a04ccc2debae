package detection

import (
	"image"
	"math"
	"sort"
)

// Region is a connected area of mask pixels.
type Region struct {
	// Bounds is the smallest axis-aligned rectangle containing every pixel of
	// the region. Min is inclusive and Max exclusive, so Bounds.Dx() is the
	// box width in pixels.
	Bounds image.Rectangle `json:"bounds"`

	// Area is the polygon area enclosed by the region's outer boundary.
	Area float64 `json:"area"`
}

// contour is an external boundary found in a mask, before ranking.
type contour struct {
	points []image.Point
	bounds image.Rectangle
	area   float64
}

// ExtractRegions finds the external regions of mask and returns those whose
// area is at least minArea, largest first.
//
// Regions are ranked by area in descending order (ties keep raster-scan order
// of their top-left pixel). The ranked list is walked until the first region
// with area < minArea; that region and every region after it are dropped.
//
// Any non-zero mask pixel counts as in-band. Returned bounds are in mask
// coordinates.
func ExtractRegions(mask *image.Gray, minArea float64) []Region {
	contours := findExternalContours(mask)

	sort.SliceStable(contours, func(i, j int) bool {
		return contours[i].area > contours[j].area
	})

	regions := make([]Region, 0, len(contours))
	for _, c := range contours {
		if c.area < minArea {
			break
		}
		regions = append(regions, Region{Bounds: c.bounds, Area: c.area})
	}

	return regions
}

// binaryGrid is a read-only view of a mask with 0-based coordinates.
type binaryGrid struct {
	mask          *image.Gray
	width, height int
}

func newBinaryGrid(mask *image.Gray) binaryGrid {
	b := mask.Bounds()
	return binaryGrid{mask: mask, width: b.Dx(), height: b.Dy()}
}

func (g binaryGrid) in(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// on reports whether (x, y) is a foreground pixel. Points outside the grid
// are background.
func (g binaryGrid) on(x, y int) bool {
	if !g.in(x, y) {
		return false
	}
	return g.mask.Pix[y*g.mask.Stride+x] != 0
}

// findExternalContours returns the outer boundary of every external region in
// the mask, in raster-scan order of each region's first pixel.
//
// Foreground uses 8-connectivity and background 4-connectivity. A region is
// external if it touches the mask edge or the background that is reachable
// from outside the mask; regions enclosed by another region's hole are skipped.
func findExternalContours(mask *image.Gray) []contour {
	g := newBinaryGrid(mask)
	b := mask.Bounds()
	exterior := markExterior(g)
	visited := make([]bool, g.width*g.height)

	contours := make([]contour, 0)

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if visited[y*g.width+x] || !g.on(x, y) {
				continue
			}

			bounds, external := fillRegion(g, exterior, visited, x, y)
			if !external {
				continue
			}

			points := traceBoundary(g, image.Point{X: x, Y: y})
			contours = append(contours, contour{
				points: points,
				bounds: bounds.Add(b.Min),
				area:   polygonArea(points),
			})
		}
	}

	return contours
}

// markExterior flags the background pixels that are 4-connected to the
// outside of the grid.
//
// Uses a stack-based flood fill seeded from every background pixel on the
// grid's border.
func markExterior(g binaryGrid) []bool {
	exterior := make([]bool, g.width*g.height)
	stack := make([]image.Point, 0, 2*(g.width+g.height))

	push := func(x, y int) {
		if !g.in(x, y) || g.on(x, y) || exterior[y*g.width+x] {
			return
		}
		exterior[y*g.width+x] = true
		stack = append(stack, image.Point{X: x, Y: y})
	}

	for x := 0; x < g.width; x++ {
		push(x, 0)
		push(x, g.height-1)
	}
	for y := 0; y < g.height; y++ {
		push(0, y)
		push(g.width-1, y)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		push(p.X+1, p.Y)
		push(p.X-1, p.Y)
		push(p.X, p.Y+1)
		push(p.X, p.Y-1)
	}

	return exterior
}

// fillRegion marks every pixel of the 8-connected region containing
// (startX, startY) as visited.
//
// Returns the region's bounding box (0-based grid coordinates) and whether any
// of its pixels is 4-adjacent to the grid edge or to exterior background.
func fillRegion(g binaryGrid, exterior, visited []bool, startX, startY int) (image.Rectangle, bool) {
	minX, minY := startX, startY
	maxX, maxY := startX, startY
	external := false

	visited[startY*g.width+startX] = true
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}

		if !external {
			for _, d := range [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := p.X+d.X, p.Y+d.Y
				if !g.in(nx, ny) || exterior[ny*g.width+nx] {
					external = true
					break
				}
			}
		}

		// 8-connected neighbors
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := p.X+dx, p.Y+dy
				if !g.on(nx, ny) || visited[ny*g.width+nx] {
					continue
				}
				visited[ny*g.width+nx] = true
				stack = append(stack, image.Point{X: nx, Y: ny})
			}
		}
	}

	return image.Rect(minX, minY, maxX+1, maxY+1), external
}

// mooreNeighbors lists the 8 neighbor offsets in clockwise order (with Y
// pointing down), starting east.
var mooreNeighbors = [8]image.Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// neighborDirection returns the index in mooreNeighbors of the offset d.
func neighborDirection(d image.Point) int {
	for i, n := range mooreNeighbors {
		if n == d {
			return i
		}
	}
	return -1
}

// traceBoundary follows the outer boundary of the region whose first pixel in
// raster order is start, using Moore-neighbor tracing.
//
// The walk keeps the background on its left-hand side and stops when it is
// back at start about to repeat its first step (Jacob's stopping criterion).
// The returned points are boundary pixels in walk order. Pixels the walk
// passes more than once, start included, appear once per visit; only the
// final return to start is omitted. An isolated pixel yields a single point.
func traceBoundary(g binaryGrid, start image.Point) []image.Point {
	points := []image.Point{start}

	cur := start
	// West of the first raster pixel is always background.
	back := 4
	firstDir := -1

	for {
		dir := -1
		for i := 1; i <= 8; i++ {
			d := (back + i) % 8
			n := cur.Add(mooreNeighbors[d])
			if g.on(n.X, n.Y) {
				dir = d
				break
			}
		}
		if dir < 0 {
			return points
		}

		if cur == start {
			if firstDir < 0 {
				firstDir = dir
			} else if dir == firstDir {
				// Drop the closing return to start.
				return points[:len(points)-1]
			}
		}

		next := cur.Add(mooreNeighbors[dir])
		// The last background pixel examined becomes the next search origin.
		lastBackground := cur.Add(mooreNeighbors[(dir+7)%8])
		back = neighborDirection(lastBackground.Sub(next))
		cur = next
		points = append(points, cur)
	}
}

// polygonArea returns the area of the closed polygon through points using
// the shoelace formula.
func polygonArea(points []image.Point) float64 {
	if len(points) < 3 {
		return 0
	}

	sum := 0
	for i, p := range points {
		q := points[(i+1)%len(points)]
		sum += p.X*q.Y - q.X*p.Y
	}

	return math.Abs(float64(sum)) / 2
}
