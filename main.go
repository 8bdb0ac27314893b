package main

import "github.com/learllr/osteolog/cli"

func main() {
	cli.Execute()
}
