// Command mapdemo exercises the mapgfx rendering core headlessly: it
// builds a layered tile map with labels and vector overlays, renders a
// scrolling camera flight over it on a recording device, and writes the
// first atlas page to a PNG so the packing is visible.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/mapgfx"
	"github.com/gogpu/mapgfx/batch"
	"github.com/gogpu/mapgfx/engine"
	"github.com/gogpu/mapgfx/gpu"
	"github.com/gogpu/mapgfx/text"
	"github.com/gogpu/mapgfx/vector"
)

func main() {
	var (
		width  = flag.Int("width", 1280, "viewport width")
		height = flag.Int("height", 720, "viewport height")
		frames = flag.Int("frames", 240, "frames to simulate")
		output = flag.String("output", "atlas.png", "atlas page output file")
		verb   = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verb {
		level = slog.LevelDebug
	}
	mapgfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	dev := gpu.NewNullDevice()
	eng := engine.New(dev, engine.WithAtlasTrim(120))
	eng.Camera().SetViewport(*width, *height)

	grid, err := buildMap(eng)
	if err != nil {
		log.Fatalf("Failed to build map: %v", err)
	}

	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}
	face := src.Face(18)
	shaper := text.NewShaper()

	selection := vector.NewPath().Rect(96, 96, 160, 96)

	for i := 0; i < *frames; i++ {
		t := float64(i) / float64(*frames)
		eng.Camera().SetPosition(t*2048, 512+256*math.Sin(t*2*math.Pi))
		eng.Camera().SetZoom(1 + 0.5*math.Sin(t*math.Pi))

		if err := eng.BeginFrame(); err != nil {
			log.Fatalf("Frame %d: %v", i, err)
		}
		if err := eng.SubmitGrid(grid); err != nil {
			log.Fatalf("Frame %d: %v", i, err)
		}
		submitLabel(eng, shaper, face, "mapgfx demo", 128, 64)
		if err := eng.Submit(
			batch.PathStroke(0, 0, selection, 2).
				WithZ(10).
				WithTint(mapgfx.RGBA{R: 1, G: 0.8, B: 0.2, A: 1}),
		); err != nil {
			log.Fatalf("Frame %d: %v", i, err)
		}
		if err := eng.EndFrame(); err != nil {
			log.Fatalf("Frame %d: %v", i, err)
		}
	}

	log.Printf("Rendered %d frames, %d draw calls in the last one", dev.Presented, len(dev.LastFrame))

	if err := saveAtlas(eng, *output); err != nil {
		log.Fatalf("Failed to save atlas: %v", err)
	}
	log.Printf("Atlas page saved to %s", *output)
}

// buildMap allocates a few procedural tiles and scatters them over two
// layers of a 64x32 grid.
func buildMap(eng *engine.Engine) (*batch.TileGrid, error) {
	const tile = 32

	grass, err := eng.Allocate(checkerTile(tile, mapgfx.RGB(0.2, 0.55, 0.25), mapgfx.RGB(0.25, 0.6, 0.3)))
	if err != nil {
		return nil, err
	}
	water, err := eng.Allocate(checkerTile(tile, mapgfx.RGB(0.15, 0.3, 0.7), mapgfx.RGB(0.2, 0.35, 0.75)))
	if err != nil {
		return nil, err
	}
	rock, err := eng.Allocate(checkerTile(tile, mapgfx.RGB(0.45, 0.42, 0.4), mapgfx.RGB(0.5, 0.47, 0.45)))
	if err != nil {
		return nil, err
	}

	grid := batch.NewTileGrid(64, 32, 2, tile)
	for r := 0; r < 32; r++ {
		for c := 0; c < 64; c++ {
			cell := batch.TileCell{Texture: grass}
			if (c*7+r*13)%11 == 0 {
				cell.Texture = water
			}
			grid.SetTile(0, c, r, cell)
			if (c*3+r*5)%17 == 0 {
				grid.SetTile(1, c, r, batch.TileCell{Texture: rock})
			}
		}
	}
	return grid, nil
}

// submitLabel shapes a string and submits one glyph renderable per
// positioned glyph.
func submitLabel(eng *engine.Engine, shaper *text.Shaper, face *text.Face, s string, x, y float64) {
	for _, g := range shaper.Shape(face, s) {
		r := batch.Glyph(x+g.X, y+g.Y, face, g.GID, g.Rune).
			WithZ(20).
			WithTint(mapgfx.White)
		if err := eng.Submit(r); err != nil {
			log.Fatalf("Submit label: %v", err)
		}
	}
}

// saveAtlas writes the first atlas page's pixels to a PNG.
func saveAtlas(eng *engine.Engine, path string) error {
	pages := eng.Atlas().Pages()
	if len(pages) == 0 {
		return nil
	}
	pix := pages[0].Pixels
	img := &image.NRGBA{
		Pix:    pix.Data(),
		Stride: pix.Width() * 4,
		Rect:   image.Rect(0, 0, pix.Width(), pix.Height()),
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// checkerTile builds a two-color checkered tile pixmap.
func checkerTile(size int, a, b mapgfx.RGBA) *mapgfx.Pixmap {
	p := mapgfx.NewPixmap(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if (x/4+y/4)%2 == 1 {
				c = b
			}
			p.SetPixel(x, y, c)
		}
	}
	return p
}
