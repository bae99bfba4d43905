package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the stored account record. HashedPassword is persisted with the
// record, so API responses go through Public.
type User struct {
	UserID         string    `json:"userId"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"passwordHash"`
	CreatedAt      time.Time `json:"createdAt"`
}

type UserResponse struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (user User) Public() UserResponse {
	return UserResponse{
		UserID:    user.UserID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func (user User) Serialize() ([]byte, error) {
	jsonUser, err := json.Marshal(user.Public())
	if err != nil {
		return []byte{}, fmt.Errorf("error parsing json for User %v", err)
	}
	return jsonUser, nil
}

func (user User) GenerateKey() string {
	return uuid.New().String()
}

// NormalizeEmail trims and lower-cases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NewUser(credentials Credentials) (User, error) {
	var user User
	userkey := user.GenerateKey()
	hashedPassword, hashErr := user.GenerateHash(credentials.Password)
	if hashErr != nil {
		return User{}, fmt.Errorf("error hashing password %v", hashErr)
	}
	user = User{
		UserID:         userkey,
		Email:          NormalizeEmail(credentials.Email),
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}
	return user, nil
}

func (user User) GenerateHash(password string) (string, error) {
	hashedPassword, hashErr := bcrypt.GenerateFromPassword([]byte(password), 8)
	if hashErr != nil {
		return "", fmt.Errorf("error hashing password %v", hashErr)
	}

	return string(hashedPassword), nil
}

// CheckPassword reports whether password matches the stored hash.
func (user User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) == nil
}
