// Package tenantcmd groups tenant record repair helpers.
package tenantcmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	identityrepo "github.com/swami-pg/backend/domains/identity/be/repo"
	identityservice "github.com/swami-pg/backend/domains/identity/be/service"
	"github.com/swami-pg/backend/platform/go/docstore"
	"github.com/swami-pg/backend/platform/go/gcp"
	"github.com/swami-pg/backend/platform/go/identity"
)

// Command groups tenant utilities.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Tenant record utilities (relink)",
	}

	cmd.AddCommand(relinkCommand())
	return cmd
}

// relinkCommand repairs a tenant record whose auth_uid is missing or stale.
// That happens when an account is recreated in the identity provider, or when
// a record was hand-edited. Login then falls back to the email scan on every
// request until the link is fixed.
func relinkCommand() *cobra.Command {
	var (
		projectID       string
		credentialsFile string
		email           string
		uid             string
		dryRun          bool
	)

	c := &cobra.Command{
		Use:   "relink",
		Short: "Point a tenant record's auth_uid at the auth account with the same email",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			normalized := identityservice.NormalizeEmail(email)
			if normalized == "" {
				return fmt.Errorf("--email is required")
			}

			authClient, fsClient, err := gcp.InitFirebase(ctx, projectID, credentialsFile)
			if err != nil {
				return fmt.Errorf("init firebase: %w", err)
			}
			defer fsClient.Close()

			if uid == "" {
				provider := identity.NewFirebase(authClient)
				principal, err := provider.LookupByEmail(ctx, normalized)
				if err != nil {
					return fmt.Errorf("lookup auth account for %s: %w", normalized, err)
				}
				uid = principal.UID
			}

			repo := identityrepo.New(docstore.NewFirestore(fsClient))
			records, err := repo.TenantsByEmail(ctx, normalized)
			if err != nil {
				return fmt.Errorf("find tenant records for %s: %w", normalized, err)
			}
			if len(records) == 0 {
				return fmt.Errorf("no tenant record has email %s", normalized)
			}
			if len(records) > 1 {
				ids := make([]string, 0, len(records))
				for _, rec := range records {
					ids = append(ids, rec.ID)
				}
				return fmt.Errorf("multiple tenant records share email %s: %s", normalized, strings.Join(ids, ", "))
			}

			rec := records[0]
			if rec.AuthUID == uid {
				fmt.Fprintf(cmd.OutOrStdout(), "tenant %s already linked to uid %s\n", rec.ID, uid)
				return nil
			}

			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "would relink tenant %s (auth_uid %q) to uid %s\n", rec.ID, rec.AuthUID, uid)
				return nil
			}

			if err := repo.LinkTenant(ctx, rec.ID, uid, nil); err != nil {
				return fmt.Errorf("relink tenant %s: %w", rec.ID, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "relinked tenant %s to uid %s\n", rec.ID, uid)
			return nil
		},
	}

	c.Flags().StringVar(&projectID, "project", "", "Firebase project id")
	c.Flags().StringVar(&credentialsFile, "credentials", "", "service account credentials file (optional with ADC)")
	c.Flags().StringVar(&email, "email", "", "tenant email to relink")
	c.Flags().StringVar(&uid, "uid", "", "auth uid to link (default: looked up by email)")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	_ = c.MarkFlagRequired("project")
	_ = c.MarkFlagRequired("email")

	return c
}
