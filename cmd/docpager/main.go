package main

import "github.com/dgallion1/docpager/internal/cli"

func main() {
	cli.Execute()
}
