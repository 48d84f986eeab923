package ziparchiver

import (
	"context"

	"github.com/woozymasta/pathrules"

	"github.com/stupid-simple/pinpack/media"
	"github.com/stupid-simple/pinpack/settings"
)

type GenerateOption func(o *generateOptions)

type generateOptions struct {
	dryRun          bool
	overwrite       bool
	onProgress      func(percent float64)
	storeRules      []pathrules.Rule
	registerPackage RegisterPackage
	imageProcessor  media.Processor
	videoProcessor  media.Processor
}

func newGenerateOptions(s settings.PackageSettings, opts []GenerateOption) generateOptions {
	o := generateOptions{
		imageProcessor: media.NewImagePipeline(s),
		videoProcessor: media.NewVideoPipeline(s),
	}
	for _, applyOpts := range opts {
		applyOpts(&o)
	}
	return o
}

// Write the package to the null device. Entries are still reported.
func WithDryRun(dryRun bool) GenerateOption {
	return func(o *generateOptions) {
		o.dryRun = dryRun
	}
}

// Replace an existing package file with the same name.
func WithOverwrite(overwrite bool) GenerateOption {
	return func(o *generateOptions) {
		o.overwrite = overwrite
	}
}

// WithProgress reports completion in percent, from 0 to 100, as entry bytes are written.
// Values never decrease and the last reported value is 100.
func WithProgress(onProgress func(percent float64)) GenerateOption {
	return func(o *generateOptions) {
		o.onProgress = onProgress
	}
}

// WithStoreRules writes entries whose archive path is included by rules without compression.
// Rules are matched case-insensitively, anything not included is compressed.
func WithStoreRules(rules []pathrules.Rule) GenerateOption {
	return func(o *generateOptions) {
		o.storeRules = rules
	}
}

type RegisterPackage interface {
	RegisterPackage(ctx context.Context, pkg *Result) error
}

// Register the generated package and its entries.
func WithRegisterPackage(register RegisterPackage) GenerateOption {
	return func(o *generateOptions) {
		o.registerPackage = register
	}
}

// WithImageProcessor replaces the image pipeline used for cover and topper files.
func WithImageProcessor(p media.Processor) GenerateOption {
	return func(o *generateOptions) {
		o.imageProcessor = p
	}
}

// WithVideoProcessor replaces the video hook used for video files.
func WithVideoProcessor(p media.Processor) GenerateOption {
	return func(o *generateOptions) {
		o.videoProcessor = p
	}
}

// StoreRules builds include rules from glob patterns such as "*.mp4" or "media/**".
func StoreRules(patterns ...string) []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(patterns))
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		rules = append(rules, pathrules.Rule{
			Action:  pathrules.ActionInclude,
			Pattern: pattern,
		})
	}
	return rules
}

// DefaultStorePatterns lists formats that are already compressed.
var DefaultStorePatterns = []string{"*.png", "*.jpg", "*.jpeg", "*.mp4", "*.mp3", "*.zip"}

type InstallOption func(o *installOptions)

type installOptions struct {
	dryRun    bool
	overwrite bool
}

func WithInstallDryRun(dryRun bool) InstallOption {
	return func(o *installOptions) {
		o.dryRun = dryRun
	}
}

// Replace installed files whose content differs from the package.
func WithInstallOverwrite(overwrite bool) InstallOption {
	return func(o *installOptions) {
		o.overwrite = overwrite
	}
}
