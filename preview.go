package main

import (
	"fmt"
	"io"

	"github.com/docker/go-units"
	"github.com/rs/zerolog"

	"github.com/stupid-simple/pinpack/packagejob"
	"github.com/stupid-simple/pinpack/packagetree"
)

func previewCommand(args Command, out io.Writer, logger zerolog.Logger) error {
	flags := args.Preview.InputFlags

	s, err := inputSettings(flags, logger)
	if err != nil {
		return err
	}
	s, err = applyCompressionOverride(s, flags.Compression)
	if err != nil {
		return err
	}

	inputs, err := parseInputs(flags.File, flags.Custom)
	if err != nil {
		return err
	}

	ws, err := packagejob.LoadWorkingSet(packagejob.Params{
		TablePath: flags.Table,
		TableName: flags.Name,
		Inputs:    inputs,
	}, flags.MaxSize.Size, logger)
	if err != nil {
		return err
	}

	root := packagetree.Build(ws.Table(), ws.Files(), s)
	if err := packagetree.Render(out, root); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "\n%d files, %s before compression\n", root.Files(), units.HumanSize(float64(ws.TotalSize())))
	return err
}
