// Package account is a local identity provider: accounts live in the
// key-value store and passwords are bcrypt hashes.
package account

import (
	"errors"
	"fmt"
	"log"

	"github.com/palette-peek/api/datastore"
	"github.com/palette-peek/api/models"
)

// Provider registers and authenticates accounts. When a Session is attached,
// successful Register and Login calls also start a session.
type Provider struct {
	users   datastore.UserRepository
	session Sessions
}

// Sessions is the part of session.Session the provider drives.
type Sessions interface {
	Login(identity string) error
	Logout() error
}

func NewProvider(users datastore.UserRepository, sessions Sessions) *Provider {
	return &Provider{users: users, session: sessions}
}

// Register creates an account and logs it in.
func (p *Provider) Register(email, password string) (models.User, error) {
	user, err := p.create(email, password)
	if err != nil {
		return models.User{}, err
	}
	if err := p.startSession(user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (p *Provider) create(email, password string) (models.User, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: email and password are required", models.ErrInvalidCredentials)
	}

	if _, err := p.users.GetUserByEmail(email); err == nil {
		return models.User{}, models.ErrDuplicateIdentity
	} else if !datastore.IsNotFound(err) {
		return models.User{}, err
	}

	user, err := models.NewUser(models.Credentials{Email: email, Password: password})
	if err != nil {
		return models.User{}, err
	}

	stored, err := p.users.Create(user)
	if err != nil {
		return models.User{}, err
	}
	log.Printf("Registered user %s", stored.Email)
	return stored, nil
}

// Authenticate checks credentials without touching the session.
func (p *Provider) Authenticate(email, password string) (models.User, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return models.User{}, models.ErrInvalidCredentials
	}

	user, err := p.users.GetUserByEmail(email)
	if err != nil {
		if datastore.IsNotFound(err) {
			return models.User{}, models.ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if !user.CheckPassword(password) {
		return models.User{}, models.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and starts a session.
func (p *Provider) Login(email, password string) (models.User, error) {
	user, err := p.Authenticate(email, password)
	if err != nil {
		return models.User{}, err
	}
	if err := p.startSession(user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (p *Provider) Logout() error {
	if p.session == nil {
		return errors.New("no session attached")
	}
	return p.session.Logout()
}

func (p *Provider) startSession(user models.User) error {
	if p.session == nil {
		return nil
	}
	return p.session.Login(user.Email)
}
