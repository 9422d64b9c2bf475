// Copyright (c) 2026 Rackline. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the locally stored identity",
		Long: `Print the cached user record without a gateway round trip.

This is the soft check: it reports whatever credential is stored, even
one the gateway would reject as expired. Use "check" for verification.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := newSession()
			if err != nil {
				return err
			}

			snapshot := store.Snapshot()
			if !snapshot.Authenticated() {
				return errors.New("not signed in")
			}

			fmt.Printf("Signed in as %s\n", snapshot.User.Username)
			printUser(snapshot.User)
			return nil
		},
	}
}
