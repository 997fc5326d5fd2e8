// Command han is the hook dispatch and validation engine's CLI
// entrypoint. It wires the dependency injection container and hands
// control to the cobra command tree.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/thebushidocollective/han/internal/cli"
	"github.com/thebushidocollective/han/internal/config"
	"github.com/thebushidocollective/han/internal/container"
	"github.com/thebushidocollective/han/internal/discovery"
	"github.com/thebushidocollective/han/internal/dispatch"
	"github.com/thebushidocollective/han/internal/manifest"
	"github.com/thebushidocollective/han/internal/run"
	"github.com/thebushidocollective/han/pkg/errors"
	"github.com/thebushidocollective/han/pkg/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		dispatcher  *dispatch.Dispatcher
		resolver    *config.Resolver
		loader      *manifest.Loader
		discoverer  *discovery.Discoverer
		coordinator *run.Coordinator
		logger      *logging.Logger
	)

	c, err := container.New(container.Populate(&dispatcher, &resolver, &loader, &discoverer, &coordinator, &logger))
	if err != nil {
		fmt.Fprintln(os.Stderr, "han: failed to start:", err)
		return 1
	}

	var cmdErr error
	if err := c.Run(ctx, func() error {
		root := cli.NewRootCommand(dispatcher, resolver, loader, discoverer, coordinator, logger)
		root.SetContext(ctx)
		cmdErr = root.Execute()
		return cmdErr
	}); err != nil {
		if hanErr, ok := err.(*errors.HanError); ok && hanErr.Message != "" {
			fmt.Fprintln(os.Stderr, "han:", hanErr.Error())
		}
		return errors.ExitCode(err)
	}

	return 0
}
