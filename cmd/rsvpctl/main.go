// Package main provides rsvpctl, the planner's command-line tool for
// importing, exporting and migrating the guest list.
package main

import (
	"fmt"
	"os"
)

const (
	Version = "0.1.0"
	appName = "rsvpctl"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
