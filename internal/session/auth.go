package session

import (
	"errors"
	"fmt"
)

const (
	keyToken  = "auth.token"
	keyUserID = "auth.user_id"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Auth reads the bearer token and user id through a Store. It holds no copy
// of its own, so a value written by another component is seen immediately.
type Auth struct {
	store Store
}

func NewAuth(store Store) *Auth {
	return &Auth{store: store}
}

func (a *Auth) Login(token string, userID string) error {
	if token == "" || userID == "" {
		return fmt.Errorf("can't login: empty token or user id")
	}

	err := a.store.Set(keyToken, token)
	if err != nil {
		return fmt.Errorf("can't store token: %w", err)
	}

	err = a.store.Set(keyUserID, userID)
	if err != nil {
		return fmt.Errorf("can't store user id: %w", err)
	}

	return nil
}

func (a *Auth) Logout() error {
	err := a.store.Set(keyToken, "")
	if err != nil {
		return fmt.Errorf("can't clear token: %w", err)
	}

	return a.store.Set(keyUserID, "")
}

// Token satisfies httpclient.TokenFunc.
func (a *Auth) Token() (string, bool) {
	v, ok, err := a.store.Get(keyToken)
	if err != nil || !ok || v == "" {
		return "", false
	}
	return v, true
}

func (a *Auth) UserID() (string, error) {
	if _, ok := a.Token(); !ok {
		return "", ErrNotLoggedIn
	}

	v, ok, err := a.store.Get(keyUserID)
	if err != nil {
		return "", fmt.Errorf("can't read user id: %w", err)
	}
	if !ok || v == "" {
		return "", ErrNotLoggedIn
	}

	return v, nil
}

func (a *Auth) LoggedIn() bool {
	_, err := a.UserID()
	return err == nil
}

// OnChange calls fn whenever the login state is written.
func (a *Auth) OnChange(fn func(loggedIn bool)) func() {
	return a.store.Subscribe(func(key string, _ string) {
		if key == keyToken || key == keyUserID {
			fn(a.LoggedIn())
		}
	})
}
