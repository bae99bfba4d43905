package datastore

import (
	"fmt"
	"sync"

	"github.com/palette-peek/api/models"
)

type UserRepository interface {
	Create(user models.User) (models.User, error)
	Get(userID string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	GetAllUsers() ([]models.User, error)
}

// UserDatabase stores all accounts as one array under UsersKey.
type UserDatabase struct {
	mu    sync.Mutex
	store KeyValueStore
}

func NewUserDatabase(store KeyValueStore) (*UserDatabase, error) {
	if store == nil {
		return nil, fmt.Errorf("user repository needs a store")
	}
	return &UserDatabase{store: store}, nil
}

func (udb *UserDatabase) load() []models.User {
	users := []models.User{}
	GetJSON(udb.store, UsersKey, &users)
	return users
}

// Create appends user, failing with models.ErrDuplicateIdentity when the
// email is already registered.
func (udb *UserDatabase) Create(user models.User) (models.User, error) {
	udb.mu.Lock()
	defer udb.mu.Unlock()

	users := udb.load()
	for _, existing := range users {
		if existing.Email == user.Email {
			return models.User{}, models.ErrDuplicateIdentity
		}
	}

	users = append(users, user)
	if err := SetJSON(udb.store, UsersKey, users); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (udb *UserDatabase) Get(userID string) (models.User, error) {
	udb.mu.Lock()
	defer udb.mu.Unlock()

	for _, user := range udb.load() {
		if user.UserID == userID {
			return user, nil
		}
	}
	return models.User{}, NoRowsError{true, fmt.Errorf("no user with id %s", userID)}
}

func (udb *UserDatabase) GetUserByEmail(email string) (models.User, error) {
	udb.mu.Lock()
	defer udb.mu.Unlock()

	email = models.NormalizeEmail(email)
	for _, user := range udb.load() {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, NoRowsError{true, fmt.Errorf("no user with email %s", email)}
}

func (udb *UserDatabase) GetAllUsers() ([]models.User, error) {
	udb.mu.Lock()
	defer udb.mu.Unlock()
	return udb.load(), nil
}
