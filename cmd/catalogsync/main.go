// Command catalogsync mirrors a Magento catalog into the commerce store.
//
// One-shot imports run as subcommands; serve keeps the HTTP API, the cron
// imports and the queue worker running until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "catalogsync:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "catalogsync",
		Usage:   "Synchronize a Magento catalog into the commerce store",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the TOML config file; default searches ., ./config and /etc/catalogsync",
				EnvVars: []string{"CATALOGSYNC_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override log.level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			importCommand(),
			importAllCommand(),
			categoriesCommand(),
			productTypesCommand(),
			enqueueCommand(),
			workerCommand(),
			serveCommand(),
		},
	}
}

// withApp bootstraps the process before action and releases it afterwards
func withApp(action func(c *cli.Context, a *app) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		a, err := bootstrap(c)
		if err != nil {
			return err
		}
		defer a.close()
		return action(c, a)
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
