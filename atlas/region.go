package atlas

// Handle identifies an allocated atlas region. Handles stay valid across
// repacks; resolve them each frame with Allocator.Region. The zero Handle
// is never allocated.
type Handle uint32

// InvalidHandle is the zero Handle.
const InvalidHandle Handle = 0

// PageID identifies one atlas page. IDs are monotonic for the lifetime of
// an Allocator; repacking retires old IDs and mints new ones, so a stale
// PageID never aliases a live page.
type PageID uint32

// Region describes where a handle currently lives.
type Region struct {
	Page       PageID
	Rect       Rect
	Generation uint32 // bumped on every repack
	Hash       uint64 // content hash of the source pixels
}

// TexCoords returns the region's normalized texture coordinates
// (u0, v0, u1, v1) for a page of the given size.
func (r Region) TexCoords(pageW, pageH int) (u0, v0, u1, v1 float32) {
	fw := float32(pageW)
	fh := float32(pageH)
	u0 = float32(r.Rect.X) / fw
	v0 = float32(r.Rect.Y) / fh
	u1 = float32(r.Rect.X+r.Rect.W) / fw
	v1 = float32(r.Rect.Y+r.Rect.H) / fh
	return u0, v0, u1, v1
}
