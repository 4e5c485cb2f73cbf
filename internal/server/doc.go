// Package server implements the MCP (Model Context Protocol) server that
// exposes the Canny edge detector as tools.
//
// # Protocol
//
// The server speaks JSON-RPC 2.0, one message per line:
//   - Input: requests on stdin
//   - Output: responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Source image:
//   - image_load: Load an image and report its metadata
//   - image_dimensions: Get width and height
//
// Edge detection:
//   - canny_edge_detect: Full pipeline, returns the edge map
//   - canny_stage: Render one intermediate stage
//   - canny_convolve: Convolve the greyscale image with a named kernel
//   - canny_probe: Trace every stage at chosen pixels
//   - canny_stats: Per-stage pixel counts and magnitude statistics
//
// Every canny_* tool accepts the same optional pipeline arguments: a crop
// region or named quadrant, max_dimension, median_radius, greyscale mode,
// blur kernel and divisor, and the threshold pair (or auto_threshold).
// Arguments left out fall back to the config.Params the server was built
// with.
//
// # Image Caching
//
// Decoded source images are cached by path for the life of the process.
// Preprocessing and the pipeline itself run fresh on every call.
//
// # Error Handling
//
// Tool failures are JSON-RPC errors with code -32000, message "Tool
// execution failed", and the Go error string as data. Malformed tools/call
// params get -32602 and unknown methods -32601.
//
// # Usage
//
//	params, err := config.LoadFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(server.WithParams(params))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
