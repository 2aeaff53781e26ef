package main

import "github.com/mabhi256/vgdiag/cmd"

func main() {
	cmd.Execute()
}
