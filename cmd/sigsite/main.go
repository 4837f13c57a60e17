// Command sigsite serves the ACM SIGMETRICS website and maintains its
// frequent-authors dataset.
package main

import (
	"fmt"
	"os"
)

// version and commit are set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
