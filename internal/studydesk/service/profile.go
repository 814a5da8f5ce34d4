package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/identity"
	"github.com/aussiebroadwan/studydesk/internal/studydesk/store"
	"github.com/aussiebroadwan/studydesk/pkg/slogx"
)

// ProfileView is the signed-in user's own profile.
type ProfileView struct {
	Profile domain.Profile
	Banned  bool
}

// ProfileService bootstraps and completes student profiles.
type ProfileService struct {
	Store  store.Store
	Policy *RegistrationPolicy
	Now    func() time.Time
}

var defaultPolicy = DefaultRegistrationPolicy()

func (s *ProfileService) policy() *RegistrationPolicy {
	if s.Policy == nil {
		return defaultPolicy
	}
	return s.Policy
}

// Ensure returns the user's profile, creating a student profile on first
// sight and filling in a missing email from the provider.
func (s *ProfileService) Ensure(ctx context.Context, u identity.User) (domain.Profile, error) {
	profiles := s.Store.Profiles()

	p, err := profiles.GetProfileByID(ctx, u.ID)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		p = domain.Profile{
			ID:        u.ID,
			Email:     u.Email,
			Role:      domain.RoleStudent,
			CreatedAt: nowOr(s.Now),
		}
		err = profiles.CreateProfile(ctx, p)
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent first request.
			return profiles.GetProfileByID(ctx, u.ID)
		}
		if err != nil {
			return domain.Profile{}, err
		}
		slogx.FromContext(ctx).Info("profile created", "user_id", u.ID)
		return p, nil
	default:
		return domain.Profile{}, err
	}

	if p.Email == "" && u.Email != "" {
		if err := profiles.UpdateEmail(ctx, u.ID, u.Email); err != nil {
			return domain.Profile{}, err
		}
		p.Email = u.Email
	}
	return p, nil
}

// PromoteAdmin makes sure u has an admin profile. It is how the first
// operators get into the back office; there is no HTTP route for it.
func (s *ProfileService) PromoteAdmin(ctx context.Context, u identity.User) error {
	p, err := s.Ensure(ctx, u)
	if err != nil {
		return err
	}
	if p.IsAdmin() {
		return nil
	}
	if err := s.Store.Profiles().UpdateRole(ctx, u.ID, domain.RoleAdmin); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("profile promoted to admin", "user_id", u.ID)
	return nil
}

// Me returns the profile with its ban flag.
func (s *ProfileService) Me(ctx context.Context, u identity.User) (ProfileView, error) {
	p, err := s.Ensure(ctx, u)
	if err != nil {
		return ProfileView{}, err
	}

	banned, err := userBanned(ctx, s.Store, u.ID)
	if err != nil {
		return ProfileView{}, err
	}
	return ProfileView{Profile: p, Banned: banned}, nil
}

// CompleteRegistration sets the username once the user has signed up.
func (s *ProfileService) CompleteRegistration(ctx context.Context, u identity.User, username string) (domain.Profile, error) {
	username = strings.TrimSpace(username)
	if !s.policy().ValidUsername(username) {
		return domain.Profile{}, invalid("username must be 3-20 letters, digits or underscores")
	}

	p, err := s.Ensure(ctx, u)
	if err != nil {
		return domain.Profile{}, err
	}
	if s.policy().Disposable(p.Email) {
		return domain.Profile{}, invalid("disposable email addresses are not allowed")
	}

	if err := s.Store.Profiles().UpdateUsername(ctx, u.ID, username); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Profile{}, ErrUsernameTaken
		}
		return domain.Profile{}, err
	}

	p.Username = username
	return p, nil
}

func userBanned(ctx context.Context, s store.Store, userID string) (bool, error) {
	_, err := s.UserBans().Get(ctx, userID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
