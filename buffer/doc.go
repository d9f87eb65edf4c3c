// Package buffer owns the CPU staging arrays and GPU vertex/index
// buffers for the frame loop. Staging arrays are rebuilt from scratch
// every frame, grow geometrically and never shrink within a session;
// GPU buffers are recreated when too small, with the old handle
// released only after the last frame that used it completes.
package buffer
