package main

import "github.com/andrewtarzia/stk/internal/interfaces/cli"

// Populated at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Execute(version, commit, date)
}
