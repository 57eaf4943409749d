// moltopo is the command-line entry point: topology extraction and
// force-field parameter checking for MDF / CHARMM-style file pairs.
package main

import (
	"os"

	"github.com/turtacn/MolTopo/internal/interfaces/cli"
)

func main() {
	os.Exit(cli.Execute())
}
