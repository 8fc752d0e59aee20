package main

import (
	"fmt"
	"runtime"
)

func versionCommand(ui UI) error {
	_, err := fmt.Fprintf(ui.Out, "sonarfn version %s (commit: %s, %s %s/%s)\n",
		BuildTag, BuildCommit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return err
}
