package main

import "github.com/amterp/kanboard/internal/cli"

func main() {
	cli.Run()
}
