// Package main provides the catalog command line client.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abgdnv/productcatalog/internal/client"
	"github.com/abgdnv/productcatalog/pkg/bootstrap"
	"github.com/spf13/cobra"
)

const envAPIURL = "CATALOG_API_URL"

// errBanner signals that the view ended with an error banner, which was already rendered.
var errBanner = errors.New("request failed")

type options struct {
	apiURL   string
	timeout  time.Duration
	logLevel string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := rootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errBanner) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func rootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List and add catalog products",
		Long: `Command line client for the product catalog API.

Examples:
  catalog list
  catalog add --name Phone --category Electronics
  catalog --api-url http://host:5000/api list
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	apiURL := os.Getenv(envAPIURL)
	if apiURL == "" {
		apiURL = client.DefaultBaseURL
	}
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", apiURL, "API base URL (env "+envAPIURL+")")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "Request timeout")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(listCmd(opts), addCmd(opts))
	return cmd
}

func listCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := newView(cmd, opts)
			view.Mount(cmd.Context())
			return render(cmd, view)
		},
	}
}

func addCmd(opts *options) *cobra.Command {
	var name, category string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product and show the updated list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := newView(cmd, opts)
			view.Mount(cmd.Context())
			view.SetName(name)
			view.SetCategory(category)
			view.Submit(cmd.Context())
			return render(cmd, view)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Product name")
	cmd.Flags().StringVar(&category, "category", "", "Product category")
	return cmd
}

func newView(cmd *cobra.Command, opts *options) *client.View {
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: bootstrap.ToLevel(opts.logLevel),
	}))
	c := client.New(opts.apiURL, client.WithTimeout(opts.timeout), client.WithLogger(logger))
	return client.NewView(c)
}

func render(cmd *cobra.Command, view *client.View) error {
	if err := view.Render(cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if view.Banner() != "" {
		return errBanner
	}
	return nil
}
