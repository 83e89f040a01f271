package identity

import "context"

// ProviderUser is a user record as held by the hosted identity provider
type ProviderUser struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	ImageURL  string
}

// Provider exposes the hosted identity service the local user table
// mirrors. Sync reconciles local rows against what it reports.
type Provider interface {
	// ListUsers returns every user known to the provider
	ListUsers(ctx context.Context) ([]ProviderUser, error)
}
