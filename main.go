package main

import "github.com/atomicobject/diskdex/cmd"

func main() {
	cmd.Execute()
}
