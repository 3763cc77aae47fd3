package main

import "github.com/arl/metalfill/cmd/dummyfill/cmd"

func main() {
	cmd.Execute()
}
