package main

import "github.com/xcursocr/shopkit/cmd/shopkit/cmd"

func main() {
	cmd.Execute()
}
