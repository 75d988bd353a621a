// Command ncwd answers get-config requests with NETCONF with-defaults
// handling against a schema description and an instance-data file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ncwd:", err)
		os.Exit(1)
	}
}
