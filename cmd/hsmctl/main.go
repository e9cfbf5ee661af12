// Command hsmctl validates, renders and drives state machines described in
// YAML.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
