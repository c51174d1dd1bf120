package main

import "github.com/nsweep/NSweep-core/cmd"

func main() {
	cmd.Excute()
}
