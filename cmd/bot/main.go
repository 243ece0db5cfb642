package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"crawler-server/internal/agent"
	"crawler-server/pkg/logger"
	"crawler-server/pkg/utils"

	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		serverURL string
		name      string
		count     int
		interval  time.Duration
	)
	flag.StringVar(&serverURL, "server", "http://localhost:8080", "Server base URL")
	flag.StringVar(&name, "name", "bot", "Name prefix")
	flag.IntVar(&count, "count", 1, "Number of bots")
	flag.DurationVar(&interval, "interval", 500*time.Millisecond, "Delay between moves")
	flag.Parse()

	logger.Init("", "")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		bot := agent.NewBot(fmt.Sprintf("%s-%d", name, i+1), serverURL, interval, utils.RandomSeed())
		g.Go(func() error { return bot.Run(ctx) })
	}

	if err := g.Wait(); err != nil {
		logger.Log.WithError(err).Fatal("Bot stopped")
	}
	logger.Log.Info("Done.")
}
