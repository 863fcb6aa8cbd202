// Package admincmd groups admin role management helpers. Admin rights are
// presence-based: a document under admins/{uid} is the whole grant.
package admincmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	identityrepo "github.com/swami-pg/backend/domains/identity/be/repo"
	"github.com/swami-pg/backend/platform/go/docstore"
	"github.com/swami-pg/backend/platform/go/gcp"
	"github.com/swami-pg/backend/platform/go/identity"
)

// Command groups admin helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin utilities (grant, backup)",
	}

	cmd.AddCommand(grantCommand())
	cmd.AddCommand(backupCommand())
	return cmd
}

func grantCommand() *cobra.Command {
	var (
		projectID       string
		credentialsFile string
		uid             string
		email           string
	)

	c := &cobra.Command{
		Use:   "grant",
		Short: "Grant admin rights to an auth account by uid or email",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if uid == "" && email == "" {
				return errors.New("either --uid or --email is required")
			}

			authClient, fsClient, err := gcp.InitFirebase(ctx, projectID, credentialsFile)
			if err != nil {
				return fmt.Errorf("init firebase: %w", err)
			}
			defer fsClient.Close()

			if uid == "" {
				provider := identity.NewFirebase(authClient)
				principal, err := provider.LookupByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
				if err != nil {
					return fmt.Errorf("lookup auth account for %s: %w", email, err)
				}
				uid = principal.UID
			}

			store := docstore.NewFirestore(fsClient)
			err = store.Create(ctx, identityrepo.CollectionAdmins, uid, map[string]any{
				"granted_at": time.Now().UTC(),
			})
			if errors.Is(err, docstore.ErrAlreadyExists) {
				fmt.Fprintf(cmd.OutOrStdout(), "uid %s is already an admin\n", uid)
				return nil
			}
			if err != nil {
				return fmt.Errorf("grant admin to %s: %w", uid, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "granted admin to uid %s\n", uid)
			return nil
		},
	}

	c.Flags().StringVar(&projectID, "project", "", "Firebase project id")
	c.Flags().StringVar(&credentialsFile, "credentials", "", "service account credentials file (optional with ADC)")
	c.Flags().StringVar(&uid, "uid", "", "auth uid to grant")
	c.Flags().StringVar(&email, "email", "", "auth email to grant (resolved to a uid)")
	_ = c.MarkFlagRequired("project")

	return c
}
