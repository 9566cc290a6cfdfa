package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/medinvest/medinvest/internal/buildinfo"
	"github.com/medinvest/medinvest/internal/logging"
	"github.com/medinvest/medinvest/internal/server"
	"github.com/medinvest/medinvest/internal/server/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg := config.LoadConfig(os.Args[1:])
	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel), logging.FormatJSON)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
