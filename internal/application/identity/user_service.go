package identity

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/identity"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
)

// UserService handles identity-related application logic. The local user
// table mirrors the hosted provider; this service keeps the mirror fresh
// via webhooks and full reconciliation runs.
type UserService struct {
	userRepo identity.Repository
	provider identity.Provider
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.Repository, provider identity.Provider, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo: userRepo,
		provider: provider,
		logger:   logger,
	}
}

// EnsureUser returns the local mirror row for an authenticated session,
// creating it on first sight. Sessions can outrun the webhook that
// announces a new account, so the row is created lazily here as well.
func (s *UserService) EnsureUser(ctx context.Context, id, email string) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err == nil {
		return ToUserResponse(user), nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err = identity.NewUser(id, email, "", "", "")
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("Created user from session", zap.String("user_id", id))

	return ToUserResponse(user), nil
}

// GetByID returns one user
func (s *UserService) GetByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// IsAdmin reports whether the given user holds the admin role. Unknown
// users are not admins.
func (s *UserService) IsAdmin(ctx context.Context, id string) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin(), nil
}

// IsAdminByEmail reports whether the account registered under the given
// email holds the admin role. Unknown emails are not admins.
func (s *UserService) IsAdminByEmail(ctx context.Context, email string) (bool, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin(), nil
}

// ListUsers returns every local user row. Admin only.
func (s *UserService) ListUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *ToUserResponse(&users[i]))
	}
	return responses, nil
}

// SetRole changes a user's authorization role. Admin only.
func (s *UserService) SetRole(ctx context.Context, id string, req *SetRoleRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.SetRole(identity.Role(req.Role)); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Changed user role", zap.String("user_id", id), zap.String("role", req.Role))
	return ToUserResponse(user), nil
}

// SyncUsers reconciles the local mirror against the provider: creates
// rows for unseen provider accounts, refreshes profile fields on known
// ones, and drops rows whose provider account is gone. Roles are local
// state and survive the sync.
func (s *UserService) SyncUsers(ctx context.Context) (*SyncResult, error) {
	providerUsers, err := s.provider.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	localUsers, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	localByID := make(map[string]*identity.User, len(localUsers))
	for i := range localUsers {
		localByID[localUsers[i].ID] = &localUsers[i]
	}

	result := &SyncResult{}
	seen := make(map[string]struct{}, len(providerUsers))
	for _, pu := range providerUsers {
		seen[pu.ID] = struct{}{}

		local, ok := localByID[pu.ID]
		if !ok {
			user, err := identity.NewUser(pu.ID, pu.Email, pu.FirstName, pu.LastName, pu.ImageURL)
			if err != nil {
				s.logger.Warn("Skipping provider user with invalid data",
					zap.String("user_id", pu.ID), zap.Error(err))
				continue
			}
			if err := s.userRepo.Save(ctx, user); err != nil {
				return nil, err
			}
			result.Created++
			continue
		}

		local.SyncProfile(pu.FirstName, pu.LastName, pu.ImageURL)
		local.Email = strings.ToLower(strings.TrimSpace(pu.Email))
		if err := s.userRepo.Save(ctx, local); err != nil {
			return nil, err
		}
		result.Updated++
	}

	orphans := make([]string, 0)
	for id := range localByID {
		if _, ok := seen[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	if len(orphans) > 0 {
		if err := s.userRepo.DeleteByIDs(ctx, orphans); err != nil {
			return nil, err
		}
		result.Deleted = len(orphans)
	}

	s.logger.Info("User sync finished",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("deleted", result.Deleted))

	return result, nil
}

// HandleWebhook applies one provider event to the local mirror. Unknown
// event types are ignored so new provider features do not break the
// endpoint.
func (s *UserService) HandleWebhook(ctx context.Context, event *WebhookEvent) error {
	switch event.Type {
	case EventUserCreated, EventUserUpdated:
		return s.upsertFromWebhook(ctx, event.Data)
	case EventUserDeleted:
		err := s.userRepo.Delete(ctx, event.Data.ID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	default:
		s.logger.Debug("Ignoring webhook event", zap.String("type", event.Type))
		return nil
	}
}

func (s *UserService) upsertFromWebhook(ctx context.Context, data WebhookUser) error {
	user, err := s.userRepo.FindByID(ctx, data.ID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		user, err = identity.NewUser(data.ID, data.Email(), data.FirstName, data.LastName, data.ImageURL)
		if err != nil {
			return err
		}
		return s.userRepo.Save(ctx, user)
	}

	user.SyncProfile(data.FirstName, data.LastName, data.ImageURL)
	if email := data.Email(); email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(email))
	}
	return s.userRepo.Save(ctx, user)
}
