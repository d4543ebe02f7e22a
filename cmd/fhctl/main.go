package main

import "github.com/mcoot/fantasyhockey/internal/cli"

func main() {
	cli.Execute()
}
