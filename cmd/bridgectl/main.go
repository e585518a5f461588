package main

import (
	"os"

	"bridge_gateway/internal/cli"
	"bridge_gateway/internal/infrastructure/configloader"
)

func main() {
	configloader.LoadDotEnv()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
