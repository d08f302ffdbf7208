package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"gnest/internal/app"
	"gnest/internal/pkg/port"
)

func main() {
	a, err := app.Setup(os.Getenv("GNEST_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "service setup failed: %v\n", err)
		os.Exit(1)
	}
	aPort, err := port.FindAvailablePort(a.Config.Server.Addr, a.Config.Server.Port)
	if err != nil {
		a.Log.Log.Error("no port to listen on", zap.Error(err))
		a.Close()
		os.Exit(1)
	}
	if err := a.ListenAndServe(fmt.Sprintf("%s:%d", a.Config.Server.Addr, aPort)); err != nil {
		a.Log.Log.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
