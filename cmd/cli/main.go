package main

import "github.com/perf-stats/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
