package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/clickhouse-shop/clickhouse/config"
	"github.com/clickhouse-shop/clickhouse/internal/adminapi"
	"github.com/clickhouse-shop/clickhouse/internal/app"
	"github.com/clickhouse-shop/clickhouse/internal/shopapi"
	"github.com/clickhouse-shop/clickhouse/internal/webserver"
)

var (
	configFile = flag.String("c", "clickhouse.yml", "config file path")
	showVer    = flag.Bool("v", false, "print version and exit")
)

// set at build time
var version = "dev"

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println(version)
		return
	}

	cfg := config.LoadConfig(*configFile)

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %s\n", err)
		os.Exit(1)
	}

	ws := webserver.New(cfg)
	shopapi.Register(ws, application)
	adminapi.Register(ws, application)

	go func() {
		if err := ws.Start(); err != nil {
			zap.S().Fatalf("webserver failed: %s", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	zap.S().Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ws.Shutdown(ctx); err != nil {
		zap.S().Errorf("webserver shutdown: %s", err)
	}
	application.Release()
}
