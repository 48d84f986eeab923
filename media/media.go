// Package media holds the processing hooks applied to image and video files
// before they are written into a package.
package media

import (
	"context"
	"errors"

	"github.com/stupid-simple/pinpack/asset"
)

var (
	ErrUnsupportedImage           = errors.New("unsupported image")
	ErrVideoConversionUnavailable = errors.New("video conversion is not available")
)

// Processor transforms the content of one file.
//
// The returned asset is always usable: when a step fails, Process returns the
// result of the steps that succeeded (possibly the input itself) along with an
// error describing the failure.
type Processor interface {
	Process(ctx context.Context, a asset.Asset) (asset.Asset, error)
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, a asset.Asset) (asset.Asset, error)

func (f ProcessorFunc) Process(ctx context.Context, a asset.Asset) (asset.Asset, error) {
	return f(ctx, a)
}

// Passthrough returns every asset unchanged.
var Passthrough Processor = ProcessorFunc(func(_ context.Context, a asset.Asset) (asset.Asset, error) {
	return a, nil
})
