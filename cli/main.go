// Command clauseql compiles prefix-clause queries into SQL.
package main

import (
	"fmt"
	"os"

	"github.com/satishbabariya/clauseql/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
