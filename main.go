package main

import "github.com/evand/freenet-scripts/cmd"

func main() {
	cmd.Execute()
}
