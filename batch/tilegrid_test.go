package batch

import (
	"testing"

	"github.com/gogpu/mapgfx"
	"github.com/gogpu/mapgfx/atlas"
)

func TestTileGrid_SetAndGet(t *testing.T) {
	g := NewTileGrid(4, 3, 2, 16)

	cell := TileCell{Texture: atlas.Handle(7)}
	g.SetTile(1, 2, 1, cell)
	if got := g.Tile(1, 2, 1); got != cell {
		t.Errorf("Tile(1,2,1) = %+v, want %+v", got, cell)
	}

	// Out of range is ignored and reads back zero.
	g.SetTile(0, 99, 0, cell)
	g.SetTile(5, 0, 0, cell)
	if got := g.Tile(0, 99, 0); got != (TileCell{}) {
		t.Errorf("out-of-range Tile = %+v, want zero", got)
	}
}

func TestTileGrid_RenderablesSkipEmptyCells(t *testing.T) {
	g := NewTileGrid(3, 3, 1, 16)
	g.SetTile(0, 0, 0, TileCell{Texture: atlas.Handle(1)})
	g.SetTile(0, 2, 2, TileCell{Texture: atlas.Handle(2)})

	rs := g.Renderables(nil, g.Bounds())
	if len(rs) != 2 {
		t.Fatalf("renderables = %d, want 2", len(rs))
	}
	if rs[0].Texture != atlas.Handle(1) || rs[1].Texture != atlas.Handle(2) {
		t.Errorf("renderable textures = %v, %v", rs[0].Texture, rs[1].Texture)
	}
	if rs[1].Pos != mapgfx.Pt(32, 32) {
		t.Errorf("cell (2,2) position = %+v, want (32, 32)", rs[1].Pos)
	}
}

func TestTileGrid_LayerBecomesZ(t *testing.T) {
	g := NewTileGrid(1, 1, 3, 16)
	g.SetTile(0, 0, 0, TileCell{Texture: atlas.Handle(1)})
	g.SetTile(2, 0, 0, TileCell{Texture: atlas.Handle(2)})

	rs := g.Renderables(nil, g.Bounds())
	if len(rs) != 2 {
		t.Fatalf("renderables = %d, want 2", len(rs))
	}
	if rs[0].Z != 0 || rs[1].Z != 2 {
		t.Errorf("z keys = %d, %d, want 0 and 2", rs[0].Z, rs[1].Z)
	}
}

func TestTileGrid_ViewClampsCellRange(t *testing.T) {
	g := NewTileGrid(100, 100, 1, 16)
	for row := 0; row < 100; row++ {
		for col := 0; col < 100; col++ {
			g.SetTile(0, col, row, TileCell{Texture: atlas.Handle(1)})
		}
	}

	// A view covering roughly 4x4 cells materializes far fewer than
	// the full 10000.
	view := mapgfx.NewRect(100, 100, 64, 64)
	rs := g.Renderables(nil, view)
	if len(rs) == 0 || len(rs) > 36 {
		t.Errorf("renderables in 64x64 view = %d, want a handful", len(rs))
	}

	// A disjoint view yields nothing.
	if rs := g.Renderables(nil, mapgfx.NewRect(-500, -500, 100, 100)); len(rs) != 0 {
		t.Errorf("renderables outside grid = %d, want 0", len(rs))
	}
}

func TestTileGrid_OriginShiftsPositions(t *testing.T) {
	g := NewTileGrid(2, 2, 1, 16)
	g.SetOrigin(-100, 50)
	g.SetTile(0, 0, 0, TileCell{Texture: atlas.Handle(1)})

	rs := g.Renderables(nil, g.Bounds())
	if len(rs) != 1 {
		t.Fatalf("renderables = %d, want 1", len(rs))
	}
	if rs[0].Pos != mapgfx.Pt(-100, 50) {
		t.Errorf("origin cell position = %+v, want (-100, 50)", rs[0].Pos)
	}
}

func TestTileGrid_TintPropagates(t *testing.T) {
	g := NewTileGrid(1, 1, 1, 16)
	tint := mapgfx.RGBA{R: 1, G: 0, B: 0, A: 0.5}
	g.SetTile(0, 0, 0, TileCell{Texture: atlas.Handle(1), Tint: tint})

	rs := g.Renderables(nil, g.Bounds())
	if len(rs) != 1 || rs[0].Tint != tint {
		t.Errorf("tint = %+v, want %+v", rs[0].Tint, tint)
	}
}
