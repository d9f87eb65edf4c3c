package batch

import (
	"github.com/gogpu/mapgfx"
	"github.com/gogpu/mapgfx/atlas"
)

// TileCell is one grid cell: the atlas handle of its tile image and a
// tint. A zero cell (InvalidHandle) is empty and produces nothing.
type TileCell struct {
	Texture atlas.Handle
	Tint    mapgfx.RGBA
}

// TileGrid is a layered, fixed-size grid of tile cells, the map
// editor's ground truth for terrain. It expands into per-tile
// renderables for the builder; layer index becomes the z-order key so
// higher layers paint over lower ones.
type TileGrid struct {
	cols, rows int
	tileSize   float64
	origin     mapgfx.Point
	layers     [][]TileCell
}

// NewTileGrid creates an empty cols x rows grid with the given number
// of layers. tileSize is the world-space edge length of one cell.
func NewTileGrid(cols, rows, layers int, tileSize float64) *TileGrid {
	g := &TileGrid{
		cols:     cols,
		rows:     rows,
		tileSize: tileSize,
		layers:   make([][]TileCell, layers),
	}
	for i := range g.layers {
		g.layers[i] = make([]TileCell, cols*rows)
	}
	return g
}

// Size returns the grid dimensions in cells.
func (g *TileGrid) Size() (cols, rows int) { return g.cols, g.rows }

// Layers returns the number of layers.
func (g *TileGrid) Layers() int { return len(g.layers) }

// SetOrigin moves the world position of cell (0, 0).
func (g *TileGrid) SetOrigin(x, y float64) {
	g.origin = mapgfx.Pt(x, y)
}

// SetTile places a cell. Out-of-range coordinates are ignored.
func (g *TileGrid) SetTile(layer, col, row int, cell TileCell) {
	if !g.inRange(layer, col, row) {
		return
	}
	g.layers[layer][row*g.cols+col] = cell
}

// Tile returns the cell at a position, or a zero cell out of range.
func (g *TileGrid) Tile(layer, col, row int) TileCell {
	if !g.inRange(layer, col, row) {
		return TileCell{}
	}
	return g.layers[layer][row*g.cols+col]
}

// Clear empties every cell of every layer.
func (g *TileGrid) Clear() {
	for _, layer := range g.layers {
		for i := range layer {
			layer[i] = TileCell{}
		}
	}
}

// Bounds returns the world-space rectangle the grid covers.
func (g *TileGrid) Bounds() mapgfx.Rect {
	return mapgfx.NewRect(g.origin.X, g.origin.Y,
		float64(g.cols)*g.tileSize, float64(g.rows)*g.tileSize)
}

// Renderables appends one tile renderable per occupied cell to dst, in
// layer-then-row-major order, and returns the extended slice. Cells
// outside the view rectangle are skipped; pass the camera's
// VisibleBounds to avoid materializing off-screen tiles at all.
func (g *TileGrid) Renderables(dst []Renderable, view mapgfx.Rect) []Renderable {
	if !g.Bounds().Intersects(view) {
		return dst
	}

	// Clamp the cell range to the view.
	c0 := int((view.Min.X - g.origin.X) / g.tileSize)
	r0 := int((view.Min.Y - g.origin.Y) / g.tileSize)
	c1 := int((view.Max.X-g.origin.X)/g.tileSize) + 1
	r1 := int((view.Max.Y-g.origin.Y)/g.tileSize) + 1
	c0, r0 = max(c0, 0), max(r0, 0)
	c1, r1 = min(c1, g.cols), min(r1, g.rows)

	for layer := range g.layers {
		cells := g.layers[layer]
		for row := r0; row < r1; row++ {
			for col := c0; col < c1; col++ {
				cell := cells[row*g.cols+col]
				if cell.Texture == atlas.InvalidHandle {
					continue
				}
				t := Tile(
					g.origin.X+float64(col)*g.tileSize,
					g.origin.Y+float64(row)*g.tileSize,
					g.tileSize,
					cell.Texture,
				).WithZ(int32(layer))
				if cell.Tint != (mapgfx.RGBA{}) {
					t.Tint = cell.Tint
				}
				dst = append(dst, t)
			}
		}
	}
	return dst
}

func (g *TileGrid) inRange(layer, col, row int) bool {
	return layer >= 0 && layer < len(g.layers) &&
		col >= 0 && col < g.cols &&
		row >= 0 && row < g.rows
}
