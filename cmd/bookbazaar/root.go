package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"bookbazaar/internal/api"
	"bookbazaar/internal/config"
	"bookbazaar/internal/notify"
	"bookbazaar/internal/store"
)

var (
	verbose bool

	version string = "dev"
)

// app bundles the wired client, sink and stores for the command handlers.
// Commands hold only ephemeral input state (flags, prompts); everything
// shared lives in the stores.
type app struct {
	cfg      *config.Config
	client   *api.Client
	sink     notify.Sink
	session  *store.Session
	catalog  *store.Catalog
	requests *store.RequestLog
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "bookbazaar",
	Short: "Buy and sell used books from the terminal",
	Long: `bookbazaar is a client for the book marketplace: register an account,
list books for sale, browse what others are selling, and message sellers.

Quick start:
  bookbazaar register             # create an account
  bookbazaar books                # browse all listings
  bookbazaar add --title ...      # list a book for sale
  bookbazaar request <book-id>    # message a seller`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			log.SetOutput(io.Discard)
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		client, err := api.New(cfg)
		if err != nil {
			return err
		}
		if cfg.CookieFile != "" {
			if err := client.LoadCookies(cfg.CookieFile); err != nil {
				log.Printf("[CLI] ignoring unreadable cookie file: %v", err)
			}
		}

		sink := notify.NewTerminal(os.Stderr)
		current = &app{
			cfg:      cfg,
			client:   client,
			sink:     sink,
			session:  store.NewSession(client, sink),
			catalog:  store.NewCatalog(client, sink),
			requests: store.NewRequestLog(client, sink),
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current != nil && current.cfg.CookieFile != "" {
			if err := current.client.SaveCookies(current.cfg.CookieFile); err != nil {
				log.Printf("[CLI] failed to save session cookies: %v", err)
			}
		}
	},
}

// Execute runs the command tree. Errors come back to main for the exit code;
// user-facing text has already gone through the sink.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
