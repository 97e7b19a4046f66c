package main

import "github.com/perclft/qbench/internal/cli"

func main() {
	cli.Execute()
}
