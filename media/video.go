package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stupid-simple/pinpack/asset"
	"github.com/stupid-simple/pinpack/pathbuilder"
	"github.com/stupid-simple/pinpack/settings"
)

// VideoPipeline is the processing hook of table and marquee videos.
// Conversion and compression are not available, so every video is kept as it is
// and requested steps are reported as errors.
type VideoPipeline struct {
	convert     bool
	compression settings.MediaCompression
}

func NewVideoPipeline(s settings.PackageSettings) *VideoPipeline {
	return &VideoPipeline{
		convert:     s.ConvertVideos,
		compression: s.VideoCompression,
	}
}

// Process implements Processor.
func (p *VideoPipeline) Process(_ context.Context, a asset.Asset) (asset.Asset, error) {
	var errs []error
	if p.convert && strings.ToLower(pathbuilder.Extension(a.Name())) != "mp4" {
		errs = append(errs, fmt.Errorf("convert to mp4: %w", ErrVideoConversionUnavailable))
	}
	if p.compression.Enabled() {
		errs = append(errs, fmt.Errorf("compress: %w", ErrVideoConversionUnavailable))
	}
	return a, errors.Join(errs...)
}
