package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/profiledash/internal/account"
	"github.com/dmitrijs2005/profiledash/internal/auth"
	"github.com/dmitrijs2005/profiledash/internal/common"
	"github.com/dmitrijs2005/profiledash/internal/cryptox"
	"github.com/dmitrijs2005/profiledash/internal/logging"
	"github.com/dmitrijs2005/profiledash/internal/validate"
)

// AvatarUploader moves inline avatar images to object storage.
type AvatarUploader interface {
	Upload(ctx context.Context, accountID int64, dataURI string) (string, error)
}

// Service implements the account operations on top of a Repository.
type Service struct {
	repo          Repository
	avatars       AvatarUploader
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	now           func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time

	dummySalt []byte
	dummyHash []byte
}

// NewService builds a Service. avatars may be nil, in which case avatar
// data URIs are stored as they are.
func NewService(repo Repository, avatars AvatarUploader, secretKey string, tokenValidity time.Duration, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop{}
	}
	salt, hash := cryptox.HashPassword(common.GenerateRandByteArray(16))
	return &Service{
		repo:          repo,
		avatars:       avatars,
		logger:        logger.With("module", "accounts"),
		jwtSecret:     []byte(secretKey),
		tokenValidity: tokenValidity,
		now:           time.Now,
		revoked:       make(map[string]time.Time),
		dummySalt:     salt,
		dummyHash:     hash,
	}
}

// Authenticate checks the credentials, stamps the last login and issues a
// session token. Unknown emails and wrong passwords both yield
// account.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (account.Summary, string, error) {
	rec, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			// same cost as a real check
			cryptox.VerifyPassword([]byte(password), s.dummySalt, s.dummyHash)
			return account.Summary{}, "", account.ErrInvalidCredentials
		}
		return account.Summary{}, "", err
	}

	if !cryptox.VerifyPassword([]byte(password), rec.Salt, rec.Hash) {
		return account.Summary{}, "", account.ErrInvalidCredentials
	}

	if err := s.repo.TouchLastLogin(ctx, rec.Profile.ID, s.now().UTC()); err != nil {
		return account.Summary{}, "", fmt.Errorf("touch last login: %w", err)
	}

	issued, err := auth.GenerateToken(rec.Profile.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return account.Summary{}, "", common.ErrorInternal
	}

	s.logger.Info(ctx, "authenticated", "account_id", rec.Profile.ID)
	return rec.Profile.Summary(), issued.Token, nil
}

// ResolveToken returns the account id a live, unrevoked token belongs to.
func (s *Service) ResolveToken(_ context.Context, token string) (int64, error) {
	claims, err := s.verify(token)
	if err != nil {
		return 0, err
	}
	return claims.AccountID()
}

func (s *Service) verify(token string) (*auth.Claims, error) {
	if token == "" {
		return nil, account.ErrMissingToken
	}
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", account.ErrMissingToken, err)
	}
	if s.isRevoked(claims.ID) {
		return nil, fmt.Errorf("%w: %v", account.ErrMissingToken, common.ErrInvalidToken)
	}
	return claims, nil
}

// EndSession revokes token until it would have expired anyway.
func (s *Service) EndSession(ctx context.Context, token string) error {
	claims, err := s.verify(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	s.revoked[claims.ID] = claims.ExpiresAt.Time
	s.logger.Info(ctx, "session ended", "account_id", claims.Subject)
	return nil
}

func (s *Service) isRevoked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[id]
	return ok
}

func (s *Service) pruneLocked() {
	now := s.now()
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
}

// Profile returns the full profile of the account.
func (s *Service) Profile(ctx context.Context, id int64) (account.Profile, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return account.Profile{}, err
	}
	return rec.Profile, nil
}

// UpdateProfile validates patch and merges it onto the stored profile.
// Invalid patches yield validate.Errors. Inline avatar images are moved to
// object storage first when an uploader is configured.
func (s *Service) UpdateProfile(ctx context.Context, id int64, patch account.ProfilePatch) (account.Profile, error) {
	patch.FullName = strings.TrimSpace(patch.FullName)
	patch.Email = strings.TrimSpace(patch.Email)

	form := validate.ProfileForm{FullName: patch.FullName, Email: patch.Email, Bio: patch.Bio, Avatar: patch.Avatar}
	if errs := validate.Profile(form); errs != nil {
		return account.Profile{}, errs
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return account.Profile{}, err
	}

	if s.avatars != nil && isDataURI(patch.Avatar) {
		url, err := s.avatars.Upload(ctx, id, patch.Avatar)
		if err != nil {
			return account.Profile{}, fmt.Errorf("avatar upload: %w", err)
		}
		patch.Avatar = url
	}

	p := patch.Apply(rec.Profile)

	if err := s.repo.Update(ctx, p); err != nil {
		return account.Profile{}, err
	}

	s.logger.Info(ctx, "profile updated", "account_id", id)
	return p, nil
}

func isDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}
