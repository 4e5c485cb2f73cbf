package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/ironsheep/canny-mcp/internal/canny"
	"github.com/ironsheep/canny-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "canny_edge_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if s.debug {
		log.Printf("tool %s finished in %s (err=%v)", params.Name, time.Since(start), err)
	}
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Source image
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Edge detection
	case "canny_edge_detect":
		return s.handleEdgeDetect(args)
	case "canny_stage":
		return s.handleStage(args)
	case "canny_convolve":
		return s.handleConvolve(args)
	case "canny_probe":
		return s.handleProbe(args)
	case "canny_stats":
		return s.handleStats(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Source Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Pipeline Argument Handling ===

// pipelineArgs are the arguments every pipeline tool shares. Pointer fields
// left nil fall back to the server configuration.
type pipelineArgs struct {
	Path     string          `json:"path"`
	Region   *imaging.Region `json:"region"`
	Quadrant string          `json:"quadrant"`

	MaxDimension *int `json:"max_dimension"`
	MedianRadius *int `json:"median_radius"`

	Greyscale     *string  `json:"greyscale"`
	BlurKernel    *string  `json:"blur_kernel"`
	BlurNormalize *float64 `json:"blur_normalize"`

	StrongThreshold *float64 `json:"strong_threshold"`
	WeakThreshold   *float64 `json:"weak_threshold"`
	AutoThreshold   *bool    `json:"auto_threshold"`
}

// prepare loads and preprocesses the source image and resolves the
// pipeline options. Arguments override the server configuration; a weak
// threshold at or above the strong one is corrected with Thresholds.Clamped.
func (s *Server) prepare(a pipelineArgs) (image.Image, canny.Options, error) {
	if a.Path == "" {
		return nil, canny.Options{}, errors.New("path is required")
	}

	p := *s.params
	if a.MaxDimension != nil {
		p.MaxDimension = a.MaxDimension
	}
	if a.MedianRadius != nil {
		p.MedianRadius = a.MedianRadius
	}
	if a.Greyscale != nil {
		p.Greyscale = a.Greyscale
	}
	if a.BlurKernel != nil {
		p.BlurKernel = a.BlurKernel
	}
	if a.BlurNormalize != nil {
		p.BlurNormalize = a.BlurNormalize
	}
	if a.StrongThreshold != nil {
		p.StrongThreshold = a.StrongThreshold
		if a.WeakThreshold == nil {
			p.WeakThreshold = nil
		}
	}
	if a.WeakThreshold != nil {
		p.WeakThreshold = a.WeakThreshold
	}
	if a.AutoThreshold != nil {
		p.AutoThreshold = a.AutoThreshold
	}

	th := p.GetThresholds().Clamped()
	p.StrongThreshold, p.WeakThreshold = &th.Strong, &th.Weak
	if err := p.Validate(); err != nil {
		return nil, canny.Options{}, fmt.Errorf("invalid arguments: %w", err)
	}

	src, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, canny.Options{}, err
	}

	pre := imaging.Preprocess{
		Region:       a.Region,
		MaxDimension: p.GetMaxDimension(),
		MedianRadius: p.GetMedianRadius(),
	}
	if pre.Region == nil && a.Quadrant != "" {
		r, err := imaging.NamedRegion(src.Bounds(), a.Quadrant)
		if err != nil {
			return nil, canny.Options{}, err
		}
		pre.Region = &r
	}
	img, err := pre.Apply(src)
	if err != nil {
		return nil, canny.Options{}, fmt.Errorf("failed to preprocess image: %w", err)
	}

	opts := p.Options()
	if s.debug {
		b := img.Bounds()
		log.Printf("pipeline on %s: %dx%d, grey=%s blur=%s thresholds=%+v auto=%v",
			a.Path, b.Dx(), b.Dy(), opts.Grey, opts.BlurKernel, opts.Thresholds, opts.AutoThreshold)
	}
	return img, opts, nil
}

// run prepares the image and executes the full pipeline.
func (s *Server) run(a pipelineArgs) (image.Image, canny.State, error) {
	img, opts, err := s.prepare(a)
	if err != nil {
		return nil, canny.State{}, err
	}
	st, err := canny.Run(img, opts)
	if err != nil {
		return nil, canny.State{}, fmt.Errorf("failed to detect edges: %w", err)
	}
	return img, st, nil
}

// === Edge Detection Handlers ===

func (s *Server) handleEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a pipelineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, opts, err := s.prepare(a)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeDetect(img, opts)
}

type stageArgs struct {
	pipelineArgs
	Stage string `json:"stage"`
}

func (s *Server) handleStage(args json.RawMessage) (interface{}, error) {
	var a stageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Stage == "" {
		return nil, errors.New("stage is required")
	}
	_, st, err := s.run(a.pipelineArgs)
	if err != nil {
		return nil, err
	}
	return imaging.RenderStage(st, a.Stage)
}

type convolveArgs struct {
	pipelineArgs
	Kernel    string   `json:"kernel"`
	Normalize *float64 `json:"normalize"`
}

func (s *Server) handleConvolve(args json.RawMessage) (interface{}, error) {
	var a convolveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Kernel == "" {
		return nil, errors.New("kernel is required")
	}
	img, opts, err := s.prepare(a.pipelineArgs)
	if err != nil {
		return nil, err
	}
	return imaging.ConvolveImage(img, opts.Grey, canny.KernelName(a.Kernel), a.Normalize, opts.Workers)
}

type probeArgs struct {
	pipelineArgs
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label"`
	} `json:"points"`
}

func (s *Server) handleProbe(args json.RawMessage) (interface{}, error) {
	var a probeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Points) == 0 {
		return nil, errors.New("at least one point is required")
	}
	img, st, err := s.run(a.pipelineArgs)
	if err != nil {
		return nil, err
	}

	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	return imaging.Probe(img, st, points)
}

func (s *Server) handleStats(args json.RawMessage) (interface{}, error) {
	var a pipelineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, st, err := s.run(a)
	if err != nil {
		return nil, err
	}
	return imaging.ComputeStats(st)
}
