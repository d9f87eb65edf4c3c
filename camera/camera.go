package camera

import (
	"github.com/gogpu/mapgfx"
)

// Config bounds the camera's zoom range and culling margin.
type Config struct {
	// MinZoom and MaxZoom clamp SetZoom and ZoomBy.
	MinZoom float64
	MaxZoom float64

	// Margin expands VisibleBounds by this many screen pixels on every
	// side, so renderables sliding in during a pan are already resident.
	Margin float64
}

// DefaultConfig returns the camera limits used by the engine.
func DefaultConfig() Config {
	return Config{
		MinZoom: 0.1,
		MaxZoom: 10,
		Margin:  64,
	}
}

// Camera maps world coordinates to screen coordinates through a position,
// a zoom factor and a viewport size. The view-projection matrix is
// recomputed lazily: mutations set a dirty flag and the next
// ViewProjection call rebuilds it.
//
// Camera is not safe for concurrent use.
type Camera struct {
	cfg Config

	pos        mapgfx.Point
	zoom       float64
	viewportW  int
	viewportH  int
	vp         mapgfx.Mat4
	dirty      bool
	recomputes int
}

// New creates a camera at the origin with zoom 1 and an empty viewport.
// Callers must SetViewport before the first frame.
func New(cfg Config) *Camera {
	if cfg.MinZoom <= 0 || cfg.MaxZoom < cfg.MinZoom {
		cfg = DefaultConfig()
	}
	return &Camera{
		cfg:   cfg,
		zoom:  clampZoom(1, cfg),
		vp:    mapgfx.IdentityMat4(),
		dirty: true,
	}
}

func clampZoom(z float64, cfg Config) float64 {
	if z < cfg.MinZoom {
		return cfg.MinZoom
	}
	if z > cfg.MaxZoom {
		return cfg.MaxZoom
	}
	return z
}

// Position returns the world point at the center of the viewport.
func (c *Camera) Position() mapgfx.Point { return c.pos }

// SetPosition moves the camera center to a world point.
func (c *Camera) SetPosition(x, y float64) {
	p := mapgfx.Pt(x, y)
	if p != c.pos {
		c.pos = p
		c.dirty = true
	}
}

// Pan moves the camera by a world-space delta.
func (c *Camera) Pan(dx, dy float64) {
	if dx != 0 || dy != 0 {
		c.pos = c.pos.Add(mapgfx.Pt(dx, dy))
		c.dirty = true
	}
}

// Zoom returns the current zoom factor.
func (c *Camera) Zoom() float64 { return c.zoom }

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom].
func (c *Camera) SetZoom(z float64) {
	z = clampZoom(z, c.cfg)
	if z != c.zoom {
		c.zoom = z
		c.dirty = true
	}
}

// ZoomBy multiplies the zoom factor, clamped to [MinZoom, MaxZoom].
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.zoom * factor)
}

// Viewport returns the viewport size in pixels.
func (c *Camera) Viewport() (w, h int) { return c.viewportW, c.viewportH }

// SetViewport resizes the viewport, typically on window resize.
func (c *Camera) SetViewport(w, h int) {
	if w != c.viewportW || h != c.viewportH {
		c.viewportW = w
		c.viewportH = h
		c.dirty = true
	}
}

// ViewProjection returns the world-to-clip matrix, rebuilding it only if
// the camera changed since the last call.
func (c *Camera) ViewProjection() mapgfx.Mat4 {
	if c.dirty {
		b := c.worldViewport()
		// World Y grows downward; NDC Y grows upward.
		c.vp = mapgfx.Ortho(b.Min.X, b.Max.X, b.Max.Y, b.Min.Y, 0, 1)
		c.dirty = false
		c.recomputes++
	}
	return c.vp
}

// WorldToScreen converts a world point to screen pixels.
func (c *Camera) WorldToScreen(p mapgfx.Point) mapgfx.Point {
	return mapgfx.Pt(
		(p.X-c.pos.X)*c.zoom+float64(c.viewportW)/2,
		(p.Y-c.pos.Y)*c.zoom+float64(c.viewportH)/2,
	)
}

// ScreenToWorld converts screen pixels to a world point. It is the exact
// inverse of WorldToScreen.
func (c *Camera) ScreenToWorld(p mapgfx.Point) mapgfx.Point {
	return mapgfx.Pt(
		(p.X-float64(c.viewportW)/2)/c.zoom+c.pos.X,
		(p.Y-float64(c.viewportH)/2)/c.zoom+c.pos.Y,
	)
}

// VisibleBounds returns the world-space rectangle covering the viewport
// expanded by the configured margin. The margin is given in screen pixels
// and scales with zoom, so culling keeps the same on-screen slack at any
// magnification.
func (c *Camera) VisibleBounds() mapgfx.Rect {
	return c.worldViewport().Expand(c.cfg.Margin / c.zoom)
}

// worldViewport returns the world rectangle exactly covering the viewport.
func (c *Camera) worldViewport() mapgfx.Rect {
	halfW := float64(c.viewportW) / (2 * c.zoom)
	halfH := float64(c.viewportH) / (2 * c.zoom)
	return mapgfx.Rect{
		Min: mapgfx.Pt(c.pos.X-halfW, c.pos.Y-halfH),
		Max: mapgfx.Pt(c.pos.X+halfW, c.pos.Y+halfH),
	}
}
