package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/swami-pg/backend/platform/go/docstore"
	"github.com/swami-pg/backend/platform/go/gcp"
	"github.com/swami-pg/backend/platform/go/identity"
)

// buildIdentityBackend wires the identity provider and document store for the
// configured backend. "firebase" is the real deployment; "fake" runs the whole
// API against in-memory implementations for local development.
func buildIdentityBackend(ctx context.Context, cfg config, logger *zap.Logger) (identity.Provider, docstore.Store, func()) {
	switch cfg.AuthProvider {
	case "firebase":
		if cfg.ProjectID == "" {
			logger.Fatal("FIREBASE_PROJECT_ID required when AUTH_PROVIDER=firebase")
		}
		authClient, fsClient, err := gcp.InitFirebase(ctx, cfg.ProjectID, cfg.CredentialsFile)
		if err != nil {
			logger.Fatal("init firebase", zap.Error(err))
		}
		cleanup := func() {
			if err := fsClient.Close(); err != nil {
				logger.Warn("closing firestore client", zap.Error(err))
			}
		}
		return identity.NewFirebase(authClient), docstore.NewFirestore(fsClient), cleanup
	case "fake":
		logger.Warn("using fake identity backend; do not use in production")
		return identity.NewFake(), docstore.NewMemory(), func() {}
	default:
		logger.Fatal("invalid AUTH_PROVIDER (use firebase or fake)", zap.String("provider", cfg.AuthProvider))
		return nil, nil, nil
	}
}
