package main

import (
	"github.com/guessroom/guessroom/internal/cli"
)

func main() {
	cli.Execute()
}
