package main

import "github.com/dataweft/dataweft-cli/cmd"

func main() {
	cmd.Execute()
}
