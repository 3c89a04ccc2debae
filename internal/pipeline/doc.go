// Package pipeline ties the other packages together into the per-image
// annotation pipeline and the batch runner.
//
// # Per-Image Pipeline
//
// Processor.Annotate takes a decoded image and:
//
//  1. Letterboxes it onto the configured canvas (imaging.Normalize)
//  2. Converts the canvas to HSV once (imaging.ToHSV)
//  3. For every color band, in table order:
//     - builds the band mask (detection.Segment)
//     - extracts regions largest first (detection.ExtractRegions)
//     - places a label and draws the box and label for each region
//
// The HSV image is computed before any drawing, so boxes drawn for one band
// never show up in the mask of a later band. Label placement state spans
// all bands of one image.
//
// Processor.ProcessFile adds decoding and an atomic write around Annotate.
//
// # Batch Runner
//
// Runner.Run processes every image directly inside a source directory and
// writes each result under the same file name to a destination directory.
// A file that fails to decode or write is logged and skipped; the batch goes
// on. With one worker (the default) files are processed in name order, one
// at a time. More workers process files concurrently through a bounded
// errgroup; each image has its own canvas, placer and annotator.
//
// Cancellation is checked between images. An image that has started is
// finished and written.
package pipeline
