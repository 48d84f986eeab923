package main

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/docker/go-units"

	"github.com/stupid-simple/pinpack/ziparchiver"
)

func inspectCommand(ctx context.Context, args Command, out io.Writer) error {
	entries, err := ziparchiver.ReadEntries(ctx, args.Inspect.Package)
	if err != nil {
		return fmt.Errorf("could not read package: %w", err)
	}

	var size, compressed int64
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tSIZE\tPACKED\tMETHOD\tHASH")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%016x\n",
			e.Path,
			units.HumanSize(float64(e.Size)),
			units.HumanSize(float64(e.CompressedSize)),
			methodName(e.Method),
			e.Hash,
		)
		size += e.Size
		compressed += e.CompressedSize
	}
	if err := w.Flush(); err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "\n%d entries, %s, %s packed\n", len(entries), units.HumanSize(float64(size)), units.HumanSize(float64(compressed)))
	return err
}

func methodName(method uint16) string {
	switch method {
	case zip.Store:
		return "store"
	case zip.Deflate:
		return "deflate"
	default:
		return fmt.Sprintf("method %d", method)
	}
}
