// Package main is the entry point for the stagecast application.
package main

import (
	"github.com/samber/lo"
	"github.com/stagecast-av/stagecast/cmd"
	"github.com/stagecast-av/stagecast/config"
	"github.com/stagecast-av/stagecast/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
