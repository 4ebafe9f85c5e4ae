package main

import "github.com/tessera-io/tessera/cmd"

func main() {
	cmd.Execute()
}
