package main

import (
	"os"

	"github.com/charliek/slotview/internal/cli"
)

func main() {
	app := cli.NewApp()
	os.Exit(app.Run(os.Args))
}
