// Package detection finds regions of known colors in a normalized canvas.
//
// Detection works on the HSV image produced by imaging.ToHSV and runs one pass
// per color band:
//
//  1. Segmentation: Segment marks every pixel whose H, S and V all fall inside
//     the band's inclusive range, producing a binary mask
//  2. Region Extraction: ExtractRegions traces the outer boundary of each
//     connected group of mask pixels, measures its area and bounding box,
//     and ranks the groups by area
//  3. Cutoff: ranked regions are emitted until the first one smaller than the
//     minimum area; everything after it is smaller still and is dropped
//
// # Color Bands
//
// The band table is static. Bands() returns it in a fixed order, and that
// order matters to callers: labels placed for earlier bands are visible to
// the collision check of later bands.
//
// # Connectivity
//
// Mask pixels are 8-connected (diagonal neighbors join a region). Background
// pixels are 4-connected. Only the outer boundary of a region counts: holes
// do not reduce its area, and a region sitting inside another region's hole
// is not reported at all.
//
// # Area
//
// Region area is the polygon area enclosed by the traced boundary, measured
// through pixel centers. A solid w x h block therefore has area (w-1)*(h-1),
// and single-pixel-wide lines have area 0.
package detection
