// Package identity integrates with the Clerk backend API. Users
// authenticate against Clerk; this client lets the application mirror
// Clerk's user records locally and verify its webhook deliveries.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/identity"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/infrastructure/config"
)

const listUsersPageSize = 100

// ClerkClient implements identity.Provider against the Clerk backend API
type ClerkClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClerkClient creates a new Clerk API client
func NewClerkClient(cfg *config.ClerkConfig) *ClerkClient {
	return &ClerkClient{
		baseURL:   cfg.APIURL,
		secretKey: cfg.SecretKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// clerkUser mirrors the fields of Clerk's user object this service reads
type clerkUser struct {
	ID                    string `json:"id"`
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	ImageURL              string `json:"image_url"`
	PrimaryEmailAddressID string `json:"primary_email_address_id"`
	EmailAddresses        []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// primaryEmail returns the address marked as primary, falling back to the
// first one on record
func (u *clerkUser) primaryEmail() string {
	for _, addr := range u.EmailAddresses {
		if addr.ID == u.PrimaryEmailAddressID {
			return addr.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

// ListUsers implements identity.Provider. It pages through the Clerk user
// list until a short page signals the end.
func (c *ClerkClient) ListUsers(ctx context.Context) ([]identity.ProviderUser, error) {
	var users []identity.ProviderUser

	for offset := 0; ; offset += listUsersPageSize {
		page, err := c.listUsersPage(ctx, listUsersPageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, u := range page {
			users = append(users, identity.ProviderUser{
				ID:        u.ID,
				Email:     u.primaryEmail(),
				FirstName: u.FirstName,
				LastName:  u.LastName,
				ImageURL:  u.ImageURL,
			})
		}

		if len(page) < listUsersPageSize {
			return users, nil
		}
	}
}

func (c *ClerkClient) listUsersPage(ctx context.Context, limit, offset int) ([]clerkUser, error) {
	url := fmt.Sprintf("%s/users?limit=%s&offset=%s",
		c.baseURL, strconv.Itoa(limit), strconv.Itoa(offset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("clerk: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clerk: list users: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("clerk: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clerk: list users returned status %d: %s", resp.StatusCode, body)
	}

	var page []clerkUser
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("clerk: decode user list: %w", err)
	}
	return page, nil
}

var _ identity.Provider = (*ClerkClient)(nil)
