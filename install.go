package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stupid-simple/pinpack/ziparchiver"
)

func installCommand(ctx context.Context, args Command, logger zerolog.Logger) error {
	flags := args.Install
	if flags.DryRun {
		logger = logger.With().Bool("dryrun", true).Logger()
	}

	result, err := ziparchiver.Install(
		ctx,
		flags.Package,
		flags.Dest,
		logger,
		ziparchiver.WithInstallDryRun(flags.DryRun),
		ziparchiver.WithInstallOverwrite(flags.Overwrite),
	)
	if err != nil {
		return err
	}
	if result.Modified > 0 && !flags.Overwrite {
		logger.Warn().Int("files", result.Modified).Msg("some installed files differ from the package, use --overwrite to replace them")
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d files could not be installed", result.Failed)
	}
	return nil
}
