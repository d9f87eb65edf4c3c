// Package gpu defines the device abstraction the rendering packages draw
// through. The interface is small on purpose: buffers, textures and a
// per-frame begin/draw/end cycle. Production code uses the hal-backed
// implementation in gpu/gogpu; tests use NullDevice.
package gpu
