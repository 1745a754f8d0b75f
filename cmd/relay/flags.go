package main

import (
	"flag"
	"time"

	"github.com/sergeii/rss-json-relay/internal/app"
)

func useFlags(args []string) app.Override {
	return func(cfg *app.Config) error {
		flagConfig := struct {
			ServerAddress string
			FetchTimeout  time.Duration
			LogLevel      string
		}{}
		flags := flag.NewFlagSet("relay", flag.ContinueOnError)
		flags.StringVar(&flagConfig.ServerAddress, "a", "", "Server listen address in the form of host:port")
		flags.DurationVar(&flagConfig.FetchTimeout, "t", 0, "Timeout for fetching a feed, e.g. 10s")
		flags.StringVar(&flagConfig.LogLevel, "l", "", "Log level (debug, info, warn, error)")
		if err := flags.Parse(args); err != nil {
			return err
		}
		// Указанные значения настроек из CLI-аргументов имеют преимущество перед одноименными environment переменными
		if flagConfig.ServerAddress != "" {
			cfg.ServerAddress = flagConfig.ServerAddress
		}
		if flagConfig.FetchTimeout != 0 {
			cfg.FetchTimeout = flagConfig.FetchTimeout
		}
		if flagConfig.LogLevel != "" {
			cfg.LogLevel = flagConfig.LogLevel
		}
		return nil
	}
}
