package main

import (
	"github.com/ironhall/kiosk/internal/cli"
)

func main() {
	cli.Execute()
}
