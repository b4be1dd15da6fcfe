// Package gfx is a graphics device abstraction layer for real-time rendering.
//
// # Overview
//
// A single, backend-agnostic [Context] exposes a state machine (render
// targets, transform matrices, texture, shader, blend state) and a drawing
// API. The context forwards primitive submission and resource management to
// a [Device], which is realized by one of two backends:
//
//   - backend/gl: persistent bound global state (OpenGL 3.3 core)
//   - backend/native: explicit command lists, pipeline state caching,
//     per-draw bind groups and submission fences (gogpu/wgpu HAL)
//
// Backends register themselves from init functions. Import the ones you
// want with a blank import:
//
//	import (
//	    "github.com/gogpu/gfx"
//	    _ "github.com/gogpu/gfx/backend/native"
//	)
//
//	ctx, err := gfx.New(window, gfx.WithBackend("native"))
//
// # Resources
//
// Textures, shaders, render targets and buffers are reference counted
// handles created from immutable descriptors. Creation failures return a nil
// handle and an error; the backend payload (the device object) is destroyed
// exactly once, when the last reference is released.
//
// # Coordinate System
//
// Matrices are column-major mgl32 values applied to column vectors.
// The default projection maps (0,0) to the top-left and (width,height) to
// the bottom-right corner of the current render target. Clip-space depth is
// [-1,1] as produced by [OrthoMatrix]; each backend converts it to its own
// native depth range, so the same geometry renders identically on both.
//
// # Threading
//
// A Context and every handle it creates must be used from one goroutine.
// Only the logger is safe for concurrent use.
package gfx

// Version is the current version of the library.
const Version = "0.4.0"
