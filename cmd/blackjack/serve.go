package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/server"
)

// ServeCmd serves one shared table over WebSockets
type ServeCmd struct {
	Addr string `help:"Listen address, overriding the config"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg)

	addr := c.Addr
	if addr == "" {
		addr = cfg.ServerAddress()
	}

	var bots []server.SeatedBot
	for i, bc := range cfg.Bots {
		b, err := bot.New(bc.Strategy, randutil.Derive(cfg.Shoe.Seed, i), logger)
		if err != nil {
			return err
		}
		bots = append(bots, server.SeatedBot{Name: bc.Name, Bank: bc.Bank, Bot: b})
	}

	gs := server.NewGameService(server.ServiceConfig{
		Table:         cfg.TableConfig(logger),
		Shoe:          deck.NewShoe(randutil.FromSeed(cfg.Shoe.Seed), cfg.Policy()),
		Bots:          bots,
		Bank:          cfg.Table.Bank,
		MaxPlayers:    cfg.Server.MaxPlayers,
		ActionTimeout: cfg.ActionTimeout(),
		Clock:         quartz.NewReal(),
		Logger:        logger,
	})
	srv := server.NewServer(addr, gs, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return srv.ListenAndServe(ctx)
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down", "clients", srv.ConnectionCount())
		return nil
	})
	return eg.Wait()
}
