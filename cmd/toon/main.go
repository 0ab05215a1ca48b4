package main

import "github.com/toonlab/toon/internal/cli"

func main() {
	cli.Execute()
}
