package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/carlmjohnson/versioninfo"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/vectis-labs/vectis/extension-client/metrics"
	"github.com/vectis-labs/vectis/extension-client/server"
)

func serve(cliCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, logger := loadConfig(cliCtx)
	logger.Infof("vectis todo version %v", versioninfo.Short())

	var todoMetrics *metrics.TodoMetrics
	if config.Metrics.Enabled {
		promAddr, err := config.Metrics.Address()
		if err != nil {
			return fmt.Errorf("failed to get prometheus address: %w", err)
		}
		metricsServer := metrics.Start(promAddr, logger)
		defer metricsServer.Stop(context.Background())

		todoMetrics = metrics.NewTodoMetrics()
	}

	a, err := newApp(config, logger, todoMetrics)
	if err != nil {
		return errors.Wrap(err, "new app failed")
	}
	defer a.Close()

	if err := a.controller.Start(ctx); err != nil {
		return errors.Wrap(err, "start todo controller failed")
	}

	s := server.NewServer(
		logger,
		config.Common.RpcServerIpPortAddress,
		config.Common.RpcCors,
		a.controller,
		a.notifications,
		a.wallet,
	)

	if err := s.Start(ctx); err != nil {
		return errors.Wrap(err, "todo http server failed")
	}
	s.Wait()

	return nil
}
