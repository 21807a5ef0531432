// Command tutorctl is the terminal client for the tutoring school: students
// show their check-in code and manage their schedule, teachers and admins
// scan codes and browse sessions.
package main

import (
	"fmt"
	"os"

	"github.com/noah-isme/tutorhub/pkg/config"
)

const version = "0.1.0"

func main() {
	cmd := newRootCmd(config.Load, streams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
