// Package annotate draws detection results onto a canvas.
//
// # Label Placement
//
// A Placer decides where each label goes. Labels sit just above their box
// when there is room and just below it otherwise. A label that lands close
// to an earlier one is pushed down once, relative to the first earlier label
// it collides with.
//
// # Drawing
//
// An Annotator draws into an *image.RGBA in place using a gg context. Each
// detection gets a box outline, a filled label background in the box colour
// and the label text on top. Labels use the Go Regular TrueType font.
//
// # Thread Safety
//
// Placers and Annotators hold per-image state and must not be shared between
// images or goroutines. Create one of each per canvas.
package annotate
