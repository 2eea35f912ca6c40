package main

import (
	"os"

	"github.com/Rionsanfas/lunaburn/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
