package main

import "xuc/cmd"

func main() {
	cmd.Execute()
}
