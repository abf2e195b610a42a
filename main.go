package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/compliance-tui/app"
	"github.com/deevus/compliance-tui/config"
	"github.com/deevus/compliance-tui/internal"
	"github.com/deevus/compliance-tui/internal/autorefresh"
	"github.com/deevus/compliance-tui/internal/compliance"
	"github.com/deevus/compliance-tui/internal/logger"
	"github.com/deevus/compliance-tui/internal/selection"
)

func main() {
	serverFlag := flag.String("server", "", "server profile name from config")
	configFlag := flag.String("config", config.DefaultPath(), "path to config file")
	flag.Parse()

	cfg, err := config.LoadFrom(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	serverName := *serverFlag
	if serverName == "" {
		names := cfg.ServerNames()
		if len(names) == 1 {
			serverName = names[0]
		} else {
			fmt.Fprintf(os.Stderr, "Multiple servers configured. Use --server flag.\nAvailable: %v\n", names)
			os.Exit(1)
		}
	}

	serverCfg, ok := cfg.Servers[serverName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: server %q not found in config\n", serverName)
		os.Exit(1)
	}

	log, logCloser, err := logger.New(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	log = log.With().Str("server", serverName).Logger()

	client := compliance.NewClient(compliance.ClientConfig{
		URL:                serverCfg.TrendURL(),
		Method:             serverCfg.Endpoints.ComplianceTrend.Method,
		Token:              serverCfg.Token,
		Timeout:            serverCfg.Timeout.Duration,
		InsecureSkipVerify: serverCfg.InsecureSkipVerify,
	}, log)
	defer client.Close()

	sel := selection.NewService(serverCfg.AssetGroups[0], selection.Filters(serverCfg.Filters))
	defer sel.Close()

	svc := internal.NewServices(client, sel, autorefresh.Static{
		Enabled:  cfg.AutoRefresh.Enabled,
		Interval: cfg.AutoRefresh.Interval.Duration,
	})

	root := app.New(app.Params{
		Services:    svc,
		ServerName:  serverName,
		AssetGroups: serverCfg.AssetGroups,
		Logger:      log,
	})

	vxApp, err := vxfw.NewApp(vaxis.Options{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create terminal app")
	}
	root.SetPostEvent(vxApp.PostEvent)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	root.Start(ctx)

	runErr := vxApp.Run(root)
	root.Stop()
	cancel()
	if runErr != nil {
		log.Error().Err(runErr).Msg("terminal app exited with error")
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		logCloser.Close()
		os.Exit(1)
	}
}
