// Package main is the entry point for the sw6 CLI client.
package main

import (
	"github.com/rotekhq/shopware6-client/cmd/sw6/cmd"
)

func main() {
	cmd.Execute()
}
