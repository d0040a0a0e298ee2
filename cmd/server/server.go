package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/saiputravu/orderbook-engine/internal/engine"
	"github.com/saiputravu/orderbook-engine/internal/wire"
)

func main() {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	eng := engine.NewEngine(logger, []engine.AssetType{engine.Equities, engine.Options, engine.Futures})
	defer eng.Close()

	srv := wire.New("0.0.0.0", 9001, eng, logger)

	go srv.Run(ctx)
	<-ctx.Done()

	os.Exit(0)
}
