package app

import (
	"context"
	"errors"
	"testing"

	"DewanRaja/internal/account/domain"
)

type fakeUserRepo struct {
	users map[string]*domain.User
	saved []domain.User
	err   error
}

func (f *fakeUserRepo) GetUserByUserName(ctx context.Context, username string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Save(ctx context.Context, user domain.User) error {
	f.saved = append(f.saved, user)
	return nil
}

func plainEncrypt(pwd, passcode string) string {
	return pwd + "#" + passcode
}

func fixedRandSeq(n int) string {
	return "abc123"
}

func newService(repo UserRepo) *UserService {
	return NewUserService(repo, plainEncrypt, fixedRandSeq)
}

func TestLogin_IssuesToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := &fakeUserRepo{users: map[string]*domain.User{
		"arjuna": {UId: 7, Username: "arjuna", Passcode: "s1", Passwd: "secret#s1", Status: 1},
	}}

	resp, err := newService(repo).Login(context.Background(), "arjuna", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.UId != 7 || resp.Token == "" {
		t.Fatalf("resp=%+v", resp)
	}
}

func TestLogin_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := &fakeUserRepo{users: map[string]*domain.User{
		"arjuna": {UId: 7, Username: "arjuna", Passcode: "s1", Passwd: "secret#s1", Status: 1},
	}}
	svc := newService(repo)

	_, errWrongPwd := svc.Login(context.Background(), "arjuna", "nope")
	_, errNoUser := svc.Login(context.Background(), "ghost", "secret")

	if !errors.Is(errWrongPwd, ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", errWrongPwd)
	}
	if !errors.Is(errNoUser, ErrInvalidCredentials) {
		t.Fatalf("unknown user: %v", errNoUser)
	}
}

func TestLogin_DisabledUserRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := &fakeUserRepo{users: map[string]*domain.User{
		"arjuna": {UId: 7, Username: "arjuna", Passcode: "s1", Passwd: "secret#s1", Status: 0},
	}}

	_, err := newService(repo).Login(context.Background(), "arjuna", "secret")
	if !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("got %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*domain.User{
		"arjuna": {UId: 7, Username: "arjuna"},
	}}

	err := newService(repo).Register(context.Background(), "arjuna", "secret")
	if !errors.Is(err, ErrUserExist) {
		t.Fatalf("got %v", err)
	}
}

func TestRegister_HashesWithFreshPasscode(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*domain.User{}}

	if err := newService(repo).Register(context.Background(), "bima", "secret"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("saved=%d", len(repo.saved))
	}
	u := repo.saved[0]
	if u.Passcode != "abc123" || u.Passwd != "secret#abc123" {
		t.Fatalf("stored user %+v", u)
	}
	if u.Passwd == "secret" {
		t.Fatalf("password stored in plaintext")
	}
}
