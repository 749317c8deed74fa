// Package main is the entrypoint for the repostat CLI.
package main

import (
	"github.com/huangsam/repostat/cmd"
	"github.com/huangsam/repostat/internal/contract"
	"github.com/huangsam/repostat/internal/iocache"
)

func main() {
	defer iocache.CloseStores()

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		iocache.CloseStores()
		contract.LogFatal("Command failed", err)
	}
}
