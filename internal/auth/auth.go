package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// CodeTTL is how long an SMS login code stays valid.
const CodeTTL = 5 * time.Minute

// NewToken returns an opaque customer token for magic links.
func NewToken() string {
	return uuid.NewString()
}

// NewSMSCode returns a 6-digit login code from a CSPRNG.
func NewSMSCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// MagicLink builds the login URL delivered to a customer by email.
func MagicLink(baseURL, token string) string {
	return baseURL + "/u/" + url.PathEscape(token)
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

// Admin holds the single admin account checked by HTTP basic auth.
type Admin struct {
	User         string
	PasswordHash string // bcrypt
}

func (a Admin) Check(user, password string) bool {
	if a.PasswordHash == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.User)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
	return userOK && passOK
}
