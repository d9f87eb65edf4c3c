// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render issues the frame's draw calls: it mirrors dirty atlas
// pages into GPU textures, binds each batch's page and blend pipeline
// and draws the batch's index range. One draw call per batch.
package render
