// Command siter generates and serves static sites from a project laid
// out under siter-pages/, siter-template/, and friends. See `siter help`
// for the full command list.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// reportErr already printed the error in RunE; just
		// carry the exit code, the same "no os.Exit mid-function" shape
		// as _examples/opal-lang-opal/cli/main.go's command dispatch.
		os.Exit(1)
	}
}
