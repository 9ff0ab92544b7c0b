package main

import (
	"github.com/bvm-cli/bvm/src/cmd"
)

func main() {
	cmd.Execute()
}
