package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/inboxtester/internal/cli"
	"github.com/dmitrijs2005/inboxtester/internal/config"
	"github.com/dmitrijs2005/inboxtester/internal/flagx"
	"github.com/dmitrijs2005/inboxtester/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	log := logging.New(os.Stderr, logging.LevelFromEnv())

	command := flagx.Command(os.Args[1:], cli.DefaultCommand)
	app := cli.NewApp(cfg, log)

	if err := app.Run(ctx, command); err != nil {
		log.Error(ctx, "scenario failed", "operation", command, "error", err)
		os.Exit(1)
	}
}
