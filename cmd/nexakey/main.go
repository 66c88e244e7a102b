package main

import "github.com/nexakey/nexakey/cmd/nexakey/cmd"

func main() {
	cmd.Execute()
}
