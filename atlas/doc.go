// Package atlas packs source images into a bounded set of fixed-size
// texture pages.
//
// The allocator hands out stable integer handles. A handle is resolved to
// its current page and rectangle every frame; callers must not cache raw
// texel coordinates across frames, because a repack moves live regions to
// fresh pages and bumps the page generation.
//
// Packing uses a guillotine free-rectangle scheme with best-area-fit
// placement. Releasing a region returns its rectangle to the free list and
// coalesces adjacent free rectangles. When the free space of a page
// splinters beyond a configurable threshold, the allocator repacks all live
// regions into a fresh set of pages, which can also shrink the page count
// after heavy churn.
//
// Identical image bytes are deduplicated by content hash: allocating the
// same pixels twice returns the same handle with an incremented reference
// count.
//
// The package knows nothing about rendering or GPU resources. Pages expose
// their CPU pixels and a dirty rectangle; uploading them is the render
// layer's concern.
package atlas
