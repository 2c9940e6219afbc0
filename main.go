// Package main is the entry point for the summarist application.
package main

import (
	"github.com/samber/lo"

	"github.com/summarist-cli/summarist/cmd"
	"github.com/summarist-cli/summarist/config"
	"github.com/summarist-cli/summarist/internal/cache"
	"github.com/summarist-cli/summarist/internal/sync"
	"github.com/summarist-cli/summarist/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Initialize asynchronous background processes for cache maintenance and synchronization.
	go cache.CollectGarbage()
	go sync.ReconcileFailures()

	cmd.Execute()
}
