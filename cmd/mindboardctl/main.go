package main

import (
	"os"

	"mindboard/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(cli.PostgresOpener).Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
