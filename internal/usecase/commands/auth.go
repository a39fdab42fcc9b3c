package commands

import (
	"context"
	"log/slog"

	"mesa-reserve/internal/domain/user"
	reqdto "mesa-reserve/internal/handler/dto/request"
	"mesa-reserve/internal/pkg/errs"
	"mesa-reserve/internal/pkg/jwt"
	"mesa-reserve/internal/pkg/password"
	"mesa-reserve/internal/usecase/queries"
	"mesa-reserve/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrUserInactive         = errs.New("user inactive")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
)

type LoginResult struct {
	UserID      uuid.UUID
	AccessToken string
	User        queries.UserView
}

// UserReader resolves login credentials against the read side.
type UserReader interface {
	FindByEmail(ctx context.Context, email string) (*queries.AuthenticatedUser, error)
}

type AuthCommands interface {
	Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	userReader UserReader
	jwtService *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, userReader UserReader, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		userReader: userReader,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error) {
	credentials, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	auth, err := a.validateUser(ctx, credentials)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(auth.User.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	accessToken, err := a.jwtService.GenerateToken(auth.User.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, auth.User.ID)
	})
	if err != nil {
		// Login already succeeded; a stale last_login is acceptable.
		slog.Warn("failed to update last login", "user_id", auth.User.ID, "error", err.Error())
	}

	return &LoginResult{
		UserID:      auth.User.ID,
		AccessToken: accessToken,
		User:        auth.User,
	}, nil
}

func (a *authCommandsImpl) validateUser(ctx context.Context, credentials user.Credentials) (*queries.AuthenticatedUser, error) {
	auth, err := a.userReader.FindByEmail(ctx, credentials.Email().Value())
	if err != nil {
		// Same error as a password mismatch to prevent user enumeration
		return nil, ErrInvalidCredentials
	}

	if !auth.User.IsActive {
		return nil, ErrUserInactive
	}

	if err := password.ComparePassword(auth.PasswordHash, credentials.Password().Value()); err != nil {
		return nil, ErrInvalidCredentials
	}

	return auth, nil
}
