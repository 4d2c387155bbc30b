// Command vizhc compiles vizh source images into native executables.
package main

import (
	"fmt"
	"os"

	"github.com/vizh-lang/vizh/cmd/vizhc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
