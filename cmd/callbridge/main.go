// Package main is the entry point for the callbridge server.
//
// Usage:
//
//	callbridge [flags] <command> [args]
//
// Commands:
//
//	serve      - Run the telephony bridge HTTP server
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/telavoice/callbridge/cmd/callbridge/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
