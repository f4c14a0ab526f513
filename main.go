package main

import "github.com/kamusis/codesearch/cmd"

func main() {
	cmd.Execute()
}
