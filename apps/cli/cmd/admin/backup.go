package admincmd

import (
	"context"
	"fmt"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/spf13/cobra"

	billsrepo "github.com/swami-pg/backend/domains/bills/be/repo"
	complaintsrepo "github.com/swami-pg/backend/domains/complaints/be/repo"
	identityrepo "github.com/swami-pg/backend/domains/identity/be/repo"
	propertiesrepo "github.com/swami-pg/backend/domains/properties/be/repo"
	visitsrepo "github.com/swami-pg/backend/domains/visits/be/repo"
	"github.com/swami-pg/backend/platform/go/docstore"
	"github.com/swami-pg/backend/platform/go/gcp"
	platformstorage "github.com/swami-pg/backend/platform/go/storage"
)

// backupCollections is every collection the application writes.
var backupCollections = []string{
	identityrepo.CollectionAdmins,
	identityrepo.CollectionTenants,
	propertiesrepo.CollectionProperties,
	billsrepo.CollectionBills,
	complaintsrepo.CollectionComplaints,
	visitsrepo.CollectionVisits,
}

func backupCommand() *cobra.Command {
	var (
		projectID       string
		credentialsFile string
		bucket          string
	)

	c := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot every collection to a Cloud Storage bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			_, fsClient, err := gcp.InitFirebase(ctx, projectID, credentialsFile)
			if err != nil {
				return fmt.Errorf("init firebase: %w", err)
			}
			defer fsClient.Close()

			gcsClient, err := gcs.NewClient(ctx)
			if err != nil {
				return fmt.Errorf("init storage client: %w", err)
			}
			defer gcsClient.Close()

			store := docstore.NewFirestore(fsClient)
			writer := platformstorage.NewSnapshotWriter(gcsClient, bucket)
			prefix := platformstorage.SnapshotPrefix(time.Now())

			for _, collection := range backupCollections {
				docs, err := store.ScanAll(ctx, collection)
				if err != nil {
					return fmt.Errorf("scan %s: %w", collection, err)
				}

				snapshot := make([]platformstorage.SnapshotDocument, 0, len(docs))
				for _, doc := range docs {
					snapshot = append(snapshot, platformstorage.SnapshotDocument{ID: doc.ID, Data: doc.Data})
				}

				objectPath, err := writer.WriteCollection(ctx, prefix, collection, snapshot)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d documents to gs://%s/%s\n", len(snapshot), bucket, objectPath)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "backup complete under gs://%s/%s\n", bucket, prefix)
			return nil
		},
	}

	c.Flags().StringVar(&projectID, "project", "", "Firebase project id")
	c.Flags().StringVar(&credentialsFile, "credentials", "", "service account credentials file (optional with ADC)")
	c.Flags().StringVar(&bucket, "bucket", "", "destination Cloud Storage bucket")
	_ = c.MarkFlagRequired("project")
	_ = c.MarkFlagRequired("bucket")

	return c
}
