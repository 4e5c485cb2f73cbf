// Package config loads server-wide defaults for the edge detection tools
// from an optional JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ironsheep/canny-mcp/internal/canny"
)

// EnvConfigPath names the environment variable holding the params file path.
const EnvConfigPath = "CANNY_MCP_CONFIG"

// maxFileSize caps the params file at 1MB.
const maxFileSize = 1 * 1024 * 1024

// Params holds server-wide defaults for the edge detection tools. Every
// field is optional; the Get* methods return the built-in default for
// fields the file leaves out, and tool arguments override both.
type Params struct {
	// Thresholds
	StrongThreshold *float64 `json:"strong_threshold,omitempty"`
	WeakThreshold   *float64 `json:"weak_threshold,omitempty"`
	AutoThreshold   *bool    `json:"auto_threshold,omitempty"`

	// Smoothing and greyscale
	BlurKernel    *string  `json:"blur_kernel,omitempty"`
	BlurNormalize *float64 `json:"blur_normalize,omitempty"`
	Greyscale     *string  `json:"greyscale,omitempty"`

	// Preprocessing
	MaxDimension *int `json:"max_dimension,omitempty"`
	MedianRadius *int `json:"median_radius,omitempty"` // -1 derives the radius from image size

	// Convolution goroutines, 0 for one per CPU
	Workers *int `json:"workers,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyParams returns Params with every field unset.
func EmptyParams() *Params {
	return &Params{}
}

// DefaultParams returns Params with every field set to its built-in
// default.
func DefaultParams() *Params {
	th := canny.DefaultThresholds()
	return &Params{
		StrongThreshold: ptrFloat64(th.Strong),
		WeakThreshold:   ptrFloat64(th.Weak),
		AutoThreshold:   ptrBool(false),
		BlurKernel:      ptrString(string(canny.KernelGaussian)),
		Greyscale:       ptrString(string(canny.GreyLuma)),
		MaxDimension:    ptrInt(0),
		MedianRadius:    ptrInt(0),
		Workers:         ptrInt(0),
	}
}

// LoadParams reads Params from a JSON file. The path must end in .json and
// the file must be under 1MB. Fields omitted from the file stay unset.
func LoadParams(path string) (*Params, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	p := EmptyParams()
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return p, nil
}

// LoadFromEnv loads the file named by CANNY_MCP_CONFIG, or returns empty
// Params when the variable is unset.
func LoadFromEnv() (*Params, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		return EmptyParams(), nil
	}
	return LoadParams(path)
}

// Validate checks the fields that are set, plus the effective threshold
// pair.
func (p *Params) Validate() error {
	if p.StrongThreshold != nil && *p.StrongThreshold <= 0 {
		return fmt.Errorf("strong_threshold must be positive, got %g", *p.StrongThreshold)
	}
	if p.WeakThreshold != nil && *p.WeakThreshold < 0 {
		return fmt.Errorf("weak_threshold must not be negative, got %g", *p.WeakThreshold)
	}
	if err := p.GetThresholds().Validate(); err != nil {
		return err
	}

	if p.BlurKernel != nil {
		if _, err := canny.LookupKernel(canny.KernelName(*p.BlurKernel)); err != nil {
			return fmt.Errorf("blur_kernel: %w", err)
		}
	}
	if p.BlurNormalize != nil && *p.BlurNormalize == 0 {
		return fmt.Errorf("blur_normalize: %w", canny.ErrInvalidKernel)
	}
	if p.Greyscale != nil {
		if _, err := canny.ParseGreyMode(*p.Greyscale); err != nil {
			return err
		}
	}

	if p.MaxDimension != nil && *p.MaxDimension < 0 {
		return fmt.Errorf("max_dimension must not be negative, got %d", *p.MaxDimension)
	}
	if p.MedianRadius != nil && *p.MedianRadius < -1 {
		return fmt.Errorf("median_radius must be -1 (auto) or more, got %d", *p.MedianRadius)
	}
	if p.Workers != nil && *p.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", *p.Workers)
	}
	return nil
}

// GetThresholds returns the configured pair, filling unset fields from
// canny.DefaultThresholds. A strong threshold set alone keeps the default
// gap below it.
func (p *Params) GetThresholds() canny.Thresholds {
	th := canny.DefaultThresholds()
	if p.StrongThreshold != nil {
		th.Strong = *p.StrongThreshold
		th.Weak = th.Strong - canny.DefaultThresholdGap
		if th.Weak <= 0 {
			th.Weak = th.Strong / 2
		}
	}
	if p.WeakThreshold != nil {
		th.Weak = *p.WeakThreshold
	}
	return th
}

func (p *Params) GetAutoThreshold() bool {
	if p.AutoThreshold != nil {
		return *p.AutoThreshold
	}
	return false
}

func (p *Params) GetBlurKernel() canny.KernelName {
	if p.BlurKernel != nil {
		return canny.KernelName(*p.BlurKernel)
	}
	return canny.KernelGaussian
}

// GetBlurNormalize returns nil when the kernel's own divisor applies.
func (p *Params) GetBlurNormalize() *float64 {
	if p.BlurNormalize != nil {
		return ptrFloat64(*p.BlurNormalize)
	}
	return nil
}

func (p *Params) GetGreyscale() canny.GreyMode {
	if p.Greyscale != nil {
		if m, err := canny.ParseGreyMode(*p.Greyscale); err == nil {
			return m
		}
	}
	return canny.GreyLuma
}

func (p *Params) GetMaxDimension() int {
	if p.MaxDimension != nil {
		return *p.MaxDimension
	}
	return 0
}

func (p *Params) GetMedianRadius() int {
	if p.MedianRadius != nil {
		return *p.MedianRadius
	}
	return 0
}

func (p *Params) GetWorkers() int {
	if p.Workers != nil {
		return *p.Workers
	}
	return 0
}

// Options builds pipeline options from the effective values.
func (p *Params) Options() canny.Options {
	return canny.Options{
		Grey:          p.GetGreyscale(),
		BlurKernel:    p.GetBlurKernel(),
		BlurNormalize: p.GetBlurNormalize(),
		Thresholds:    p.GetThresholds(),
		AutoThreshold: p.GetAutoThreshold(),
		Workers:       p.GetWorkers(),
	}
}
