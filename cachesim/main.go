// Package main provides cachesim, a command that drives a write-back cache
// with a workload and checks the data it returns.
package main

import "github.com/sarchlab/rvcosim/cachesim/cmd"

func main() {
	cmd.Execute()
}
