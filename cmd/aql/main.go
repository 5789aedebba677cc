// Command aql compiles and runs Artifact Query Language searches.
package main

import (
	"os"

	"github.com/roach88/aql/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
