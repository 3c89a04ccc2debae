// Package imaging provides the image plumbing for the color-region annotator.
//
// This package covers everything that touches pixels before detection starts
// and after annotation finishes: decoding source files, letterboxing them into
// a fixed-size canvas, converting the canvas to HSV once per image, and
// encoding the annotated canvas back to disk.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For rectangles, Min is inclusive and Max is exclusive
//
// # Color Representation
//
// HSV values use the 8-bit convention common to computer vision libraries:
//   - H: hue in half-degrees (0-179), so pure red is 0, green 60, blue 120
//   - S: saturation (0-255)
//   - V: value (0-255)
//
// Band thresholds in the detection package are expressed in the same units.
//
// # Canvas
//
// Normalize always returns an opaque *image.RGBA of exactly the requested
// size. Areas not covered by the scaled source are black. Because every canvas
// pixel is opaque, the RGBA bytes are also the straight (non-premultiplied)
// color values.
//
// # Error Handling
//
// Load returns a *DecodeError when a file cannot be opened or decoded. Callers
// use errors.As to tell an unreadable source apart from other failures, such as
// errors writing the output file.
//
// # Thread Safety
//
// Every function is stateless. Different images may be processed concurrently;
// a single canvas must not be mutated from more than one goroutine.
package imaging
