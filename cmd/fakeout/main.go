package main

import (
	"github.com/fakeout-io/fakeout/internal/cli"
)

func main() {
	cli.Execute()
}
