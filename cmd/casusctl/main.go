package main

import "github.com/casuskim/casus/internal/cli"

func main() {
	cli.Execute()
}
