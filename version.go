package main

import (
	"fmt"
	"runtime/debug"
)

// Set at build time with -ldflags "-X main.version=...".
var version = ""

func printVersion() {
	v := version
	if v == "" {
		v = "devel"
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
			v = info.Main.Version
		}
	}
	fmt.Printf("pinpack %s\n", v)
}
