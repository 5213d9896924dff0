package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/procurement-backend/internal/app"
	httpx "github.com/yungbote/procurement-backend/internal/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Start()

	srv := &httpx.Server{Engine: a.Router}
	addr := a.Cfg.HTTPAddr
	a.Log.Info("Server listening", "addr", addr)
	if err := srv.Run(ctx, addr); err != nil {
		a.Log.Error("Server failed", "error", err)
	}
}
