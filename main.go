package main

import "github.com/mouse-blink/goistanbul/cmd"

func main() {
	cmd.Execute()
}
