// Copyright (c) 2026 Rackline. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rackline/rackline/pkg/authclient"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the stored session against the gateway",
		Long: `Run a full session verification round trip.

The gateway validates the token's expiry; a rejected session removes the
local credential, the same convergence the web portal performs on 401.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, client, err := newSession()
			if err != nil {
				return err
			}

			initializer := authclient.NewInitializer(client, store, nil, nil)
			defer initializer.Close()

			if err := initializer.Run(cmd.Context()); err != nil {
				var apiErr *authclient.APIError
				if errors.As(err, &apiErr) {
					return fmt.Errorf("session rejected: %s", apiErr.Message)
				}
				return err
			}

			snapshot := store.Snapshot()
			if !snapshot.Authenticated() {
				return errors.New("not signed in")
			}

			fmt.Println("Session is valid")
			printUser(snapshot.User)
			return nil
		},
	}
}
