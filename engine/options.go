package engine

import (
	"github.com/gogpu/mapgfx"
	"github.com/gogpu/mapgfx/atlas"
	"github.com/gogpu/mapgfx/buffer"
	"github.com/gogpu/mapgfx/camera"
	"github.com/gogpu/mapgfx/render"
	"github.com/gogpu/mapgfx/text"
	"github.com/gogpu/mapgfx/vector"
)

// Option configures an Engine during creation.
//
// Example:
//
//	eng := engine.New(dev,
//		engine.WithClearColor(mapgfx.Black),
//		engine.WithAtlasTrim(120),
//	)
type Option func(*options)

type options struct {
	atlasCfg  atlas.Config
	cameraCfg camera.Config
	glyphCfg  text.GlyphCacheConfig
	shapeCfg  vector.ShapeCacheConfig
	bufferCfg buffer.Config
	renderCfg render.Config
	trimAge   uint64
}

func defaultOptions() options {
	return options{
		atlasCfg:  atlas.DefaultConfig(),
		cameraCfg: camera.DefaultConfig(),
		glyphCfg:  text.DefaultGlyphCacheConfig(),
		shapeCfg:  vector.DefaultShapeCacheConfig(),
		bufferCfg: buffer.DefaultConfig(),
		renderCfg: render.DefaultConfig(),
	}
}

// WithAtlasConfig overrides the atlas page size and repack threshold.
func WithAtlasConfig(cfg atlas.Config) Option {
	return func(o *options) { o.atlasCfg = cfg }
}

// WithCameraConfig overrides the camera zoom limits and culling margin.
func WithCameraConfig(cfg camera.Config) Option {
	return func(o *options) { o.cameraCfg = cfg }
}

// WithGlyphCacheConfig overrides the glyph cache capacity.
func WithGlyphCacheConfig(cfg text.GlyphCacheConfig) Option {
	return func(o *options) { o.glyphCfg = cfg }
}

// WithShapeCacheConfig overrides the shape cache capacity.
func WithShapeCacheConfig(cfg vector.ShapeCacheConfig) Option {
	return func(o *options) { o.shapeCfg = cfg }
}

// WithBufferConfig overrides the initial GPU buffer capacity.
func WithBufferConfig(cfg buffer.Config) Option {
	return func(o *options) { o.bufferCfg = cfg }
}

// WithClearColor sets the background color the frame is cleared to.
func WithClearColor(c mapgfx.RGBA) Option {
	return func(o *options) { o.renderCfg.ClearColor = c }
}

// WithAtlasTrim releases atlas regions unused for maxAge frames at the
// end of every frame. Zero, the default, disables trimming.
func WithAtlasTrim(maxAge uint64) Option {
	return func(o *options) { o.trimAge = maxAge }
}
