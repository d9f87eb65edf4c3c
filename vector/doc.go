// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package vector rasterizes vector paths into atlas-backed bitmaps.
//
// A Path is built from move/line/quad/cubic segments and carries a
// canonical geometry hash: two paths with the same segments quantized to
// 1/64 pixel hash identically. The ShapeCache uses that hash to rasterize
// each distinct path at most once per style, with fills and strokes cached
// under separate keys.
//
// Rasterization flattens curves to polylines and scan-converts them with
// an active edge table, honoring either the non-zero or the even-odd fill
// rule. Strokes are expanded to fill geometry first and filled non-zero.
package vector
