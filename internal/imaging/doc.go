// Package imaging sits between image files and the canny pipeline.
//
// It decodes source files (PNG, JPEG, GIF, BMP, TIFF, WebP) into a shared
// ImageCache, applies optional preprocessing (crop, downscale, median
// denoise), and turns pipeline Grids back into greyscale PNGs encoded as
// base64 for transport. It also summarises a completed run: per-pixel stage
// traces (Probe) and per-stage counts (ComputeStats).
//
// # Coordinate System
//
// Coordinates are 0-based with (0,0) at the top-left, X rightward and Y
// downward. Regions are (x1,y1) inclusive to (x2,y2) exclusive. Probe
// coordinates refer to the preprocessed image, which is what the pipeline
// saw.
//
// # Stage Rendering
//
// Greyscale, blurred, and edge Grids are already 0..255 and are written as
// is. Every other stage is stretched with canny.ScaleTo255; a stage with no
// range renders black.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Every other function is stateless.
package imaging
