package main

import "github.com/fluidlab/gofluid/cmd"

func main() {
	cmd.Execute()
}
