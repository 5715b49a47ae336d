// cmd/onramp/main.go
//
// This is the entry point for the onramp purchase widget.
// When you run `onramp` from any directory, this is what executes.
//
// Flow:
// 1. Initialize the .onramp folder (config, logs, state)
// 2. Build the gateway client, session store, and step controllers
// 3. Launch the TUI and keep the token refresh guard running behind it

package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/onramp/internal/config"
	"github.com/kingrea/onramp/internal/gateway"
	"github.com/kingrea/onramp/internal/kyb"
	"github.com/kingrea/onramp/internal/logbook"
	"github.com/kingrea/onramp/internal/session"
	"github.com/kingrea/onramp/internal/steps/address"
	"github.com/kingrea/onramp/internal/steps/email"
	"github.com/kingrea/onramp/internal/steps/kybform"
	"github.com/kingrea/onramp/internal/steps/kychandoff"
	"github.com/kingrea/onramp/internal/steps/otp"
	"github.com/kingrea/onramp/internal/steps/personal"
	"github.com/kingrea/onramp/internal/steps/purpose"
	"github.com/kingrea/onramp/internal/steps/quote"
	"github.com/kingrea/onramp/internal/steps/wallet"
	"github.com/kingrea/onramp/internal/tui"
)

func main() {
	// The working directory is the "project" the purchase runs in; the
	// .onramp folder with config, logs, and resumable state lives there.
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitOnrampDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .onramp directory: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.New(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logbook.New(cfg.LogPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening logbook: %v\n", err)
		os.Exit(1)
	}

	// The store restores the last snapshot so an interrupted purchase
	// resumes where it left off. Auth tokens never live in snapshots.
	store := session.NewStore(
		session.WithSnapshotter(session.NewSnapshotter(cfg.SnapshotPath())),
		session.WithLogbook(log),
	)
	if err := store.Restore(); err != nil {
		log.Warn("session restore: %v", err)
	}

	client := gateway.New(cfg.File.API.BaseURL, cfg.File.API.Key, gateway.WithLogger(log))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	guard := session.NewGuard(store, client.RefreshToken,
		session.WithInterval(cfg.RefreshInterval()),
		session.WithTokenCache(session.NewFileTokenCache(cfg.TokenCachePath())),
		session.WithGuardLogbook(log),
	)
	guard.Start(ctx)
	defer guard.Stop()

	controllers := tui.Controllers{
		Quote:      quote.New(store, client, quote.WithDebounce(cfg.QuoteDebounce()), quote.WithLogbook(log)),
		Wallet:     wallet.New(store, client, log),
		Email:      email.New(store, client, log),
		OTP:        otp.New(store, client, client, guard, otp.WithProfileFetcher(client), otp.WithLogbook(log)),
		Personal:   personal.New(store, client, log),
		Address:    address.New(store, client, log),
		Purpose:    purpose.New(store, client, log),
		KYCHandoff: kychandoff.New(store, log),
		KYBForm: kybform.New(store, kyb.NewClient(cfg.File.KYB.BaseURL), cfg.File.PartnerUserID,
			kybform.WithLogbook(log)),
		Catalog: client,
	}

	p := tea.NewProgram(
		tui.NewApp(store, controllers, log),
		tea.WithAltScreen(), // Use alternate screen buffer (like vim does)
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
