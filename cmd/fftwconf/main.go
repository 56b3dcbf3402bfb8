package main

import "fftwconf/internal/cli"

func main() {
	cli.Execute()
}
