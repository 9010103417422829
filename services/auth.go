package services

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// AuthClaims holds the identity extracted from a verified token
type AuthClaims struct {
	UID   string
	Email string
	Name  string
}

// TokenVerifier validates a bearer token and extracts identity claims
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*AuthClaims, error)
}

// Verifier is the process-wide token verifier. Initialized from Firebase at startup;
// tests substitute a stub.
var Verifier TokenVerifier

type firebaseVerifier struct {
	client *auth.Client
}

// InitFirebaseAuth builds the Firebase app and wires the global Verifier.
// serviceAccountJSON is the raw JSON credentials; empty falls back to application
// default credentials.
func InitFirebaseAuth(ctx context.Context, serviceAccountJSON string) error {
	var opts []option.ClientOption
	if serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return fmt.Errorf("failed to get firebase auth client: %w", err)
	}

	Verifier = &firebaseVerifier{client: client}
	return nil
}

func (v *firebaseVerifier) Verify(ctx context.Context, idToken string) (*AuthClaims, error) {
	decoded, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	claims := &AuthClaims{UID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		claims.Name = name
	}
	return claims, nil
}

// GetOrCreateUser fetches the local user for verified claims, creating it on first
// sight. The identity provider is the source of truth; no local credentials exist.
func GetOrCreateUser(db *gorm.DB, claims *AuthClaims) (*models.User, error) {
	var user models.User
	err := db.Where("firebase_uid = ?", claims.UID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		FirebaseUID: claims.UID,
		Email:       claims.Email,
		Name:        claims.Name,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
