// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Command categoryctl inspects and edits the category tree directly in
// the configured storage, without going through the admin API.
package main

import (
	"log/slog"
	"os"

	"cheonwon/internal/backend"
	"cheonwon/internal/catalog"
	"cheonwon/internal/config"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	a := &app{open: openFromEnv}
	err := newRootCmd(a).Execute()
	if cerr := a.close(); cerr != nil {
		slog.Error("failed to close storage", "error", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

// openFromEnv opens the storage named by the environment, the same way
// the server does.
func openFromEnv() (*backend.Backend, []catalog.Option, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	seed, err := config.LoadSeedTree(cfg.CategorySeedFile)
	if err != nil {
		return nil, nil, err
	}
	b, err := backend.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return b, []catalog.Option{catalog.WithSeed(seed)}, nil
}
