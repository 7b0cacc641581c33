// gh-discover finds GitHub repositories that welcome new contributors.
package main

import (
	"fmt"
	"os"

	"github.com/jparise/gh-discover/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
