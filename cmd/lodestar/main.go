// Package main provides the entry point for the lodestar CLI tool.
package main

import (
	"context"
	"os"

	"github.com/aidirectory/lodestar/cmd/lodestar/app"
)

// Version information populated by goreleaser.
var version = "dev"

func main() {
	application, err := app.New(version)
	if err != nil {
		app.ExitOnError(err)
	}

	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
