package main

import "libgov/internal/cli"

func main() {
	cli.Execute()
}
