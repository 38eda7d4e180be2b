package app

import (
	"context"
	"errors"
	"time"

	"DewanRaja/internal/account/domain"
	"DewanRaja/internal/shared/security"
	"DewanRaja/modules/kit/errx"
)

type UserRepo interface {
	GetUserByUserName(ctx context.Context, username string) (*domain.User, error)
	Save(ctx context.Context, user domain.User) error
}

type PwdEncrypter func(pwd, passcode string) string

type RandSeq func(n int) string

var (
	ErrInvalidCredentials = errx.NewBiz("INVALID_CREDENTIALS", "invalid username or password")
	ErrUserExist          = errx.NewBiz("USER_EXIST", "username already taken")
	ErrUserDisabled       = errx.NewBiz("USER_DISABLED", "account is disabled")
)

type LoginResp struct {
	UId      int64  `json:"uid"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

type UserService struct {
	userRepo     UserRepo
	pwdEncrypter PwdEncrypter
	randSeq      RandSeq
}

func NewUserService(userRepo UserRepo, pwdEncrypter PwdEncrypter, randSeq RandSeq) *UserService {
	return &UserService{
		userRepo:     userRepo,
		pwdEncrypter: pwdEncrypter,
		randSeq:      randSeq,
	}
}

// Login verifies credentials and issues the bearer token the sync and
// websocket layers authenticate with.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResp, error) {
	user, err := s.userRepo.GetUserByUserName(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Same rejection as a wrong password; do not leak which.
			return nil, ErrInvalidCredentials
		}
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	if !user.CheckPassword(password, s.pwdEncrypter) {
		return nil, ErrInvalidCredentials
	}
	if user.Status != 1 {
		return nil, ErrUserDisabled
	}

	token, err := security.Award(user.UId)
	if err != nil {
		return nil, errx.ErrInternal.WithData("uid", user.UId).WithCause(err)
	}

	return &LoginResp{
		UId:      user.UId,
		Username: user.Username,
		Token:    token,
	}, nil
}

// Register creates a user with a fresh passcode-salted password hash.
func (s *UserService) Register(ctx context.Context, username, password string) error {
	existing, err := s.userRepo.GetUserByUserName(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return errx.ErrUnavailable.WithCause(err)
	}
	if existing != nil {
		return ErrUserExist
	}

	passcode := s.randSeq(6)
	user := domain.User{
		Username: username,
		Passcode: passcode,
		Passwd:   s.pwdEncrypter(password, passcode),
		Status:   1,
		Ctime:    time.Now(),
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return errx.ErrUnavailable.WithCause(err)
	}
	return nil
}
