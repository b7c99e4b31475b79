package main

import "pkgforge/internal/cli"

func main() {
	cli.Execute()
}
