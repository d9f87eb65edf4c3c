// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "errors"

// ErrUnknownPage is returned when a batch references an atlas page the
// renderer has no texture for. With per-frame resolution this cannot
// happen unless the atlas was mutated between Build and Render.
var ErrUnknownPage = errors.New("render: batch references unknown atlas page")
