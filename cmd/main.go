package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/sceneforge-backend/internal/app"
	"github.com/yungbote/sceneforge-backend/internal/platform/shutdown"
)

func main() {
	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sceneforge: %v\n", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		a.Log.Error("Server failed", "error", err)
		a.Close()
		os.Exit(1)
	}
	a.Close()
}
