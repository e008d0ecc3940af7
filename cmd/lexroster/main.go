// Command lexroster ingests and searches Delhi district court rosters.
package main

import (
	"os"

	"github.com/custodia-labs/lexroster/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
