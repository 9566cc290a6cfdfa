package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/medinvest/medinvest/internal/buildinfo"
	"github.com/medinvest/medinvest/internal/client/cli"
	"github.com/medinvest/medinvest/internal/client/config"
	"github.com/medinvest/medinvest/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig(os.Args[1:])
	logger := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel), logging.FormatText)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
