// Copyright (c) 2026 Rackline. All rights reserved.

// Command racklinectl is a terminal client for the Rackline gateway.
//
// It drives the same SDK the web portal uses: credentials obtained by
// `login` are kept in the per-user credential cache and presented to the
// gateway as session cookies on every subsequent call.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/rackline/rackline/pkg/authclient"
	"github.com/rackline/rackline/pkg/authstate"
	"github.com/rackline/rackline/pkg/identity"
)

var gatewayURL string

func main() {
	rootCmd := &cobra.Command{
		Use:   "racklinectl",
		Short: "Interact with the Rackline marketplace from the terminal",
		Long: `racklinectl signs in against a Rackline gateway and runs
authenticated session operations.

Credentials are stored in your user config directory and removed again
by logout or by any call the gateway rejects with 401.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&gatewayURL, "gateway", defaultGateway(), "Rackline gateway base URL")

	rootCmd.AddCommand(
		loginCmd(),
		logoutCmd(),
		checkCmd(),
		whoamiCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func defaultGateway() string {
	if fromEnv := os.Getenv("RACKLINE_GATEWAY_URL"); fromEnv != "" {
		return fromEnv
	}
	return "http://localhost:8080"
}

// newSession builds the store and client pair every command runs on.
//
// The store is hydrated from the on-disk credential cache when one
// exists, and the client presents that credential as session cookies so
// the gateway sees the CLI exactly like a browser with cookies set.
func newSession() (*authstate.Store, *authclient.Client, error) {
	cachePath, err := authstate.DefaultCachePath()
	if err != nil {
		return nil, nil, err
	}

	cache := authstate.NewFileCache(cachePath)
	store := authstate.NewStore(cache)

	if token, user, err := cache.Load(); err == nil {
		_ = store.Restore(authstate.State{Token: token, User: user})
	}

	client := authclient.New(gatewayURL, store,
		authclient.WithRequestDecorator(func(request *http.Request) {
			attachSessionCookies(request, store.Snapshot())
		}),
	)
	return store, client, nil
}

// attachSessionCookies mirrors the browser cookie pair onto a request.
func attachSessionCookies(request *http.Request, snapshot authstate.State) {
	if !snapshot.Authenticated() {
		return
	}

	request.AddCookie(&http.Cookie{Name: "token", Value: snapshot.Token})
	if encoded, err := snapshot.User.Encode(); err == nil {
		request.AddCookie(&http.Cookie{Name: "user", Value: encoded})
	}
}

// printUser renders a user record for terminal output.
func printUser(user *identity.User) {
	fmt.Printf("  Username:  %s\n", user.Username)
	fmt.Printf("  Email:     %s\n", user.Email)
	if user.FullName != "" {
		fmt.Printf("  Name:      %s\n", user.FullName)
	}
	fmt.Printf("  Role:      %s\n", user.RoleType)
}
