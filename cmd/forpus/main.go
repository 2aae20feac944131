package main

import "github.com/forpus/forpus/internal/cli"

func main() {
	cli.Execute()
}
