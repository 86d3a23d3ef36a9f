package main

import (
	"github.com/ayeco/segnalago/internal/cli"
)

func main() {
	cli.Run()
}
