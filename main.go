package main

import (
	"os"

	"github.com/scan-io-git/pcc-scan/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
