package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// NewApp creates a Firebase App instance. When credentialsFile is empty the
// SDK falls back to application default credentials.
func NewApp(ctx context.Context, projectID, credentialsFile string) (*firebase.App, error) {
	conf := &firebase.Config{ProjectID: projectID}
	if credentialsFile != "" {
		return firebase.NewApp(ctx, conf, option.WithCredentialsFile(credentialsFile))
	}
	return firebase.NewApp(ctx, conf)
}

// InitFirebase initializes the Firebase App and returns the Auth and
// Firestore clients the application needs. The Firestore client must be
// closed by the caller on shutdown.
func InitFirebase(ctx context.Context, projectID, credentialsFile string) (*firebaseauth.Client, *firestore.Client, error) {
	app, err := NewApp(ctx, projectID, credentialsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing firebase app [%w]", err)
	}

	fbAuth, err := app.Auth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing firebase auth [%w]", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing firestore [%w]", err)
	}

	return fbAuth, fs, nil
}
