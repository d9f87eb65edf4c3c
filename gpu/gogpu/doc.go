// Package gogpu implements gpu.Device on the gogpu stack: a hal device
// and queue obtained from a gpucontext.DeviceProvider, with the sprite
// shader compiled from WGSL to SPIR-V through naga.
package gogpu
