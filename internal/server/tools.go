package server

import (
	"github.com/ironsheep/canny-mcp/internal/canny"
	"github.com/ironsheep/canny-mcp/internal/imaging"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// quadrantNames are the named regions imaging.NamedRegion accepts.
var quadrantNames = []string{
	"top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
}

func kernelNames() []string {
	names := make([]string, 0, len(canny.KernelNames()))
	for _, k := range canny.KernelNames() {
		names = append(names, string(k))
	}
	return names
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// pipelineProperties are accepted by every tool that runs the pipeline:
// preprocessing first, then greyscale, blur, and threshold settings.
// Omitted values fall back to the server configuration.
func pipelineProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"region": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"description": "Optional crop rectangle; (x1,y1) inclusive, (x2,y2) exclusive. Applied before anything else.",
		},
		"quadrant": map[string]interface{}{
			"type":        "string",
			"enum":        quadrantNames,
			"description": "Optional named crop region, used when region is omitted.",
		},
		"max_dimension": map[string]interface{}{
			"type":        "integer",
			"description": "Shrink the image so neither side exceeds this many pixels. 0 disables.",
			"default":     0,
		},
		"median_radius": map[string]interface{}{
			"type":        "integer",
			"description": "Median denoise radius before edge detection. 0 disables, -1 picks a radius from the image size.",
			"default":     0,
		},
		"greyscale": map[string]interface{}{
			"type":        "string",
			"enum":        []string{string(canny.GreyLuma), string(canny.GreyLightness)},
			"description": "Greyscale conversion: BT.601 luma or CIE L* lightness.",
			"default":     string(canny.GreyLuma),
		},
		"blur_kernel": map[string]interface{}{
			"type":        "string",
			"enum":        kernelNames(),
			"description": "Smoothing kernel applied to the greyscale image.",
			"default":     string(canny.KernelGaussian),
		},
		"blur_normalize": map[string]interface{}{
			"type":        "number",
			"description": "Optional divisor replacing the blur kernel's weight sum. Must not be 0.",
		},
		"strong_threshold": map[string]interface{}{
			"type":        "number",
			"description": "Thinned gradient magnitude at or above which a pixel is a strong edge.",
			"default":     float64(canny.DefaultStrongThreshold),
		},
		"weak_threshold": map[string]interface{}{
			"type":        "number",
			"description": "Magnitude at or above which a pixel is a weak edge, kept only when connected to a strong one. Pulled to strong-1 (or strong/2 below 1) if not below strong.",
			"default":     float64(canny.DefaultStrongThreshold - canny.DefaultThresholdGap),
		},
		"auto_threshold": map[string]interface{}{
			"type":        "boolean",
			"description": "Pick the thresholds from the image with Otsu's method, ignoring strong_threshold and weak_threshold.",
			"default":     false,
		},
	}
}

// pipelineSchema extends pipelineProperties with tool-specific ones.
func pipelineSchema(extra map[string]interface{}, required ...string) map[string]interface{} {
	props := pipelineProperties()
	for k, v := range extra {
		props[k] = v
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   append([]string{"path"}, required...),
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Source image
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, and colour model. The decoded image is cached for later calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Edge detection
		{
			Name:        "canny_edge_detect",
			Description: "Run Canny edge detection (greyscale, blur, Sobel gradients, non-maximum suppression, double threshold, hysteresis) and return the edge map as a PNG with white edges, the thresholds used, and the edge pixel count.",
			InputSchema: pipelineSchema(nil),
		},
		{
			Name:        "canny_stage",
			Description: "Run the pipeline and return one intermediate stage as a greyscale PNG, with the raw value range. Signed or unbounded stages are stretched to 0-255.",
			InputSchema: pipelineSchema(map[string]interface{}{
				"stage": map[string]interface{}{
					"type":        "string",
					"enum":        imaging.StageNames(),
					"description": "Stage to render. magnitude_<bin> and thinned_<bin> show one orientation bin (n_s, w_e, ne_sw, nw_se).",
				},
			}, "stage"),
		},
		{
			Name:        "canny_convolve",
			Description: "Convolve the greyscale image with a named kernel and return the result stretched to 0-255, with the raw value range.",
			InputSchema: pipelineSchema(map[string]interface{}{
				"kernel": map[string]interface{}{
					"type":        "string",
					"enum":        kernelNames(),
					"description": "Kernel to apply",
				},
				"normalize": map[string]interface{}{
					"type":        "number",
					"description": "Optional divisor replacing the kernel's weight sum (1 for zero-sum kernels). Must not be 0.",
				},
			}, "kernel"),
		},
		{
			Name:        "canny_probe",
			Description: "Report every pipeline stage (grey, blurred, gradients, magnitude, angle, orientation bin, thinned value, threshold class, final state) at one or more pixels.",
			InputSchema: pipelineSchema(map[string]interface{}{
				"points": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x":     map[string]interface{}{"type": "integer"},
							"y":     map[string]interface{}{"type": "integer"},
							"label": map[string]interface{}{"type": "string", "description": "Optional label for this point"},
						},
						"required": []string{"x", "y"},
					},
					"description": "Pixels to probe, in preprocessed image coordinates",
				},
			}, "points"),
		},
		{
			Name:        "canny_stats",
			Description: "Count pixels per orientation bin, thinned pixels, strong and weak mask sizes, edges, and hysteresis promotions, with magnitude statistics.",
			InputSchema: pipelineSchema(nil),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
