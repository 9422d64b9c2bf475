// Copyright (c) 2026 Rackline. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the stored credential",
		Long: `Notify the gateway and remove the local credential.

The local credential is removed even when the gateway cannot be reached,
matching the gateway's own best-effort logout semantics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, client, err := newSession()
			if err != nil {
				return err
			}

			// Best effort: the gateway clears cookies and notifies the
			// backend; a transport failure must not keep us signed in.
			if postErr := client.Post(cmd.Context(), "/api/auth/logout", nil, nil); postErr != nil {
				fmt.Printf("Gateway logout failed (%s), clearing local credential anyway\n", postErr)
			}

			store.Logout()
			fmt.Println("Signed out")
			return nil
		},
	}
}
