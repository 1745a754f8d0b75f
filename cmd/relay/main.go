package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/sergeii/rss-json-relay/internal/app"
	"github.com/sergeii/rss-json-relay/internal/router"
	"github.com/sergeii/rss-json-relay/pkg/http/server"
)

func main() {
	relay, err := app.New(useFlags(os.Args[1:]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to configure the app: %s\n", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    relay.Config.ServerAddress,
		Handler: router.New(relay),
	}
	if err := server.Start(
		srv,
		server.WithShutdownTimeout(relay.Config.ServerShutdownTimeout),
		server.WithLogger(relay.Logger),
	); err != nil {
		relay.Logger.Fatal().Err(err).Msg("server exited with error")
	}
}
