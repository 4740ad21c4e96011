package editor

import (
	"context"
	"log/slog"

	"github.com/taibuivan/polyglot/internal/platform/apperr"
	"github.com/taibuivan/polyglot/internal/platform/constants"
	"github.com/taibuivan/polyglot/internal/platform/sec"
	"github.com/taibuivan/polyglot/internal/platform/validate"
)

// Service implements editor authentication.
type Service struct {
	repo   Repository
	tokens *sec.TokenService
	logger *slog.Logger
}

// NewService creates an editor service.
func NewService(repo Repository, tokens *sec.TokenService, logger *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

// LoginInput carries one login attempt.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult carries the issued token and the authenticated account.
type LoginResult struct {
	AccessToken string  `json:"access_token"`
	Editor      *Editor `json:"editor"`
}

// Login verifies credentials and issues a signed access token.
//
// Unknown usernames and wrong passwords both map to the same Unauthorized
// error so responses do not leak which accounts exist.
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	v := &validate.Validator{}
	v.Required("username", input.Username)
	v.Required("password", input.Password)
	if err := v.Err(); err != nil {
		return nil, err
	}

	account, err := service.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.Unauthorized("Invalid username or password")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		service.logger.WarnContext(ctx, "login_failed",
			slog.String("username", input.Username),
		)
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	token, err := service.tokens.GenerateAccessToken(
		account.ID, account.Username, account.Role, constants.AccessTokenTTL,
	)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	service.logger.InfoContext(ctx, "login_succeeded",
		slog.String("editor_id", account.ID),
	)
	return &LoginResult{AccessToken: token, Editor: account}, nil
}
