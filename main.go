package main

import "stealthspanner/internal/cli"

func main() {
	cli.Execute()
}
