package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer      = "glitchfall"
	tokenLifetime    = 30 * 24 * time.Hour
	secretSetting    = "jwt_secret"
	bcryptCost       = 12
	minPasswordLen   = 4
	minUsernameLen   = 2
	maxUsernameLen   = 16
	loginRateWindow  = time.Minute
	maxLoginAttempts = 10
)

var (
	ErrProfileInUse = errors.New("profile already in use")
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is a signed-in profile. Its progress lives under Key().
type Identity struct {
	ID    int64
	Name  string
	Token string
}

// Key returns the progress store key the identity reads and writes
func (id Identity) Key() string {
	return ProfileKey(id.Name)
}

// profileClaims is the token body. Subject carries the profile ID and
// Progress names the record the token was issued for.
type profileClaims struct {
	Name     string `json:"name"`
	Progress string `json:"progress"`
	jwt.RegisteredClaims
}

// Auth signs profiles in and seats each one on at most one connection.
type Auth struct {
	db     *DB
	secret []byte

	seatMu sync.Mutex
	seats  map[int64]*Client

	rateMu   sync.Mutex
	attempts map[string]*loginWindow
}

type loginWindow struct {
	count int
	until time.Time
}

// NewAuth creates a new Auth handler
func NewAuth(db *DB) *Auth {
	return &Auth{
		db:       db,
		secret:   signingSecret(db),
		seats:    make(map[int64]*Client),
		attempts: make(map[string]*loginWindow),
	}
}

// signingSecret reads the token secret from settings so tokens survive a
// restart, creating it on first boot.
func signingSecret(db *DB) []byte {
	if b, err := hex.DecodeString(db.GetSetting(secretSetting)); err == nil && len(b) == 32 {
		return b
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate token secret: " + err.Error())
	}
	if err := db.SetSetting(secretSetting, hex.EncodeToString(secret)); err != nil {
		log.Printf("warning: could not persist token secret: %v", err)
	}
	return secret
}

// Register creates a profile with an empty progress record
func (a *Auth) Register(username, password string) (Identity, error) {
	username = strings.TrimSpace(username)
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return Identity{}, fmt.Errorf("username must be %d-%d characters", minUsernameLen, maxUsernameLen)
	}
	if len(password) < minPasswordLen {
		return Identity{}, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	exists, err := a.db.UsernameExists(username)
	if err != nil {
		return Identity{}, fmt.Errorf("database error")
	}
	if exists {
		return Identity{}, fmt.Errorf("username already taken")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return Identity{}, fmt.Errorf("internal error")
	}
	id, err := a.db.CreateProfile(username, string(hash))
	if err != nil {
		return Identity{}, fmt.Errorf("failed to create profile")
	}
	return a.issue(id, username)
}

// Login checks a password. Attempts are limited per remote address.
func (a *Auth) Login(username, password, ip string) (Identity, error) {
	if !a.allowLogin(ip) {
		return Identity{}, fmt.Errorf("too many login attempts, try again later")
	}
	row, err := a.db.GetProfileByUsername(strings.TrimSpace(username))
	if err != nil {
		return Identity{}, fmt.Errorf("database error")
	}
	if row == nil || row.PassHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(row.PassHash), []byte(password)) != nil {
		return Identity{}, fmt.Errorf("invalid username or password")
	}
	return a.issue(row.ID, row.Username)
}

// Resume turns a stored token back into an identity. The profile must
// still exist under the same ID and the token must point at its record.
func (a *Auth) Resume(token string) (Identity, error) {
	var claims profileClaims
	keyFunc := func(*jwt.Token) (any, error) { return a.secret, nil }
	_, err := jwt.ParseWithClaims(token, &claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return Identity{}, ErrInvalidToken
	}
	ident := Identity{ID: id, Name: claims.Name, Token: token}
	if claims.Progress != ident.Key() {
		return Identity{}, ErrInvalidToken
	}
	row, err := a.db.GetProfileByUsername(claims.Name)
	if err != nil || row == nil || row.ID != id {
		return Identity{}, ErrInvalidToken
	}
	return ident, nil
}

func (a *Auth) issue(id int64, name string) (Identity, error) {
	ident := Identity{ID: id, Name: name}
	now := time.Now()
	claims := profileClaims{
		Name:     name,
		Progress: ident.Key(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(id, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return Identity{}, fmt.Errorf("internal error")
	}
	ident.Token = token
	return ident, nil
}

// Seat gives the profile to owner. Seating the current holder again is a
// no-op; any other owner gets ErrProfileInUse.
func (a *Auth) Seat(profileID int64, owner *Client) error {
	a.seatMu.Lock()
	defer a.seatMu.Unlock()
	if cur, ok := a.seats[profileID]; ok && cur != owner {
		return ErrProfileInUse
	}
	a.seats[profileID] = owner
	return nil
}

// Unseat frees the profile if owner holds it
func (a *Auth) Unseat(profileID int64, owner *Client) {
	a.seatMu.Lock()
	defer a.seatMu.Unlock()
	if a.seats[profileID] == owner {
		delete(a.seats, profileID)
	}
}

// Holder returns the connection playing a profile, nil when free
func (a *Auth) Holder(profileID int64) *Client {
	a.seatMu.Lock()
	defer a.seatMu.Unlock()
	return a.seats[profileID]
}

func (a *Auth) allowLogin(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := time.Now()
	w, ok := a.attempts[ip]
	if !ok || now.After(w.until) {
		a.attempts[ip] = &loginWindow{count: 1, until: now.Add(loginRateWindow)}
		return true
	}
	w.count++
	return w.count <= maxLoginAttempts
}

// GenerateGuestName names an anonymous session, e.g. "Runner_a3f2c1"
func GenerateGuestName() string {
	b := make([]byte, 3)
	rand.Read(b)
	return "Runner_" + hex.EncodeToString(b)
}
