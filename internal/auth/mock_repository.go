package auth

import (
	"sync"
	"time"
)

type mockRepository struct {
	users  map[string]*User
	tokens []*RefreshToken
	nextID uint
	mu     sync.RWMutex

	// set to force persistence failures in tests
	failCreateToken bool
	failRecordLogin bool
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:  make(map[string]*User),
		nextID: 1,
	}
}

func (r *mockRepository) CreateUser(user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email || u.Token == user.Token {
			return ErrDuplicateUsername
		}
	}

	stored := *user
	stored.ID = r.nextID
	r.nextID++
	stored.CreatedAt = time.Now()
	r.users[stored.Username] = &stored
	user.ID = stored.ID

	return nil
}

func (r *mockRepository) GetUserByUsername(username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[username]
	if !exists {
		return nil, ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

func (r *mockRepository) GetUserByEmail(email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *mockRepository) GetUserByAccountToken(token string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Token == token {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *mockRepository) GetUserByResetToken(email, token string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email && u.PasswordResetToken != nil && *u.PasswordResetToken == token {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *mockRepository) RecordLogin(userID uint, ip string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failRecordLogin {
		return ErrUserNotFound
	}

	for _, u := range r.users {
		if u.ID == userID {
			u.LoginCount++
			u.IPAddress = ip
			return nil
		}
	}
	return ErrUserNotFound
}

func (r *mockRepository) SetResetToken(email, token string, expiration time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			t := token
			exp := expiration
			u.PasswordResetToken = &t
			u.PasswordResetExpiration = &exp
			return nil
		}
	}
	return ErrUserNotFound
}

func (r *mockRepository) UpdatePassword(email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			u.Password = passwordHash
			u.PasswordResetToken = nil
			u.PasswordResetExpiration = nil
			return nil
		}
	}
	return ErrUserNotFound
}

func (r *mockRepository) CreateRefreshToken(rt *RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failCreateToken {
		return ErrRefreshTokenNotFound
	}

	stored := *rt
	stored.ID = r.nextID
	r.nextID++
	r.tokens = append(r.tokens, &stored)
	rt.ID = stored.ID

	return nil
}

func (r *mockRepository) GetValidRefreshToken(username, token string) (*RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tokens {
		if t.Username == username && t.Token == token && t.IsValid {
			clone := *t
			return &clone, nil
		}
	}
	return nil, ErrRefreshTokenNotFound
}

func (r *mockRepository) InvalidateRefreshToken(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tokens {
		if t.ID == id {
			t.IsValid = false
			return nil
		}
	}
	return ErrRefreshTokenNotFound
}

func (r *mockRepository) InvalidateAllRefreshTokens(username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tokens {
		if t.Username == username {
			t.IsValid = false
		}
	}
	return nil
}

// expireToken backdates a stored refresh token, for expiry tests.
func (r *mockRepository) expireToken(token string, to time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tokens {
		if t.Token == token {
			t.Expiration = to
		}
	}
}

func (r *mockRepository) userCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
