package main

import "github.com/magicmirror/magic-mirror/cmd"

func main() {
	cmd.Execute()
}
