package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidResetLink covers every bad reset link: malformed, expired,
// already used or for an unknown user.
var ErrInvalidResetLink = errors.New("password reset link is invalid or has expired")

const (
	resetIssuer   = "yatube"
	resetAudience = "password-reset"
)

// DefaultResetTTL is how long a reset link stays valid.
const DefaultResetTTL = 72 * time.Hour

// ResetMailer sends rendered messages.
type ResetMailer interface {
	Render(name string, to string, data interface{}) (Message, error)
	Send(msg Message) error
}

// ResetEmail is the data the password_reset templates see.
type ResetEmail struct {
	Username string
	Link     string
	Site     string
	Hours    int
}

// PasswordResetService issues and redeems password reset links.
//
// Tokens are HS256 JWTs signed with the session secret plus the user's
// current password hash, so a link stops working once the password changes.
type PasswordResetService struct {
	users  repository.UserRepository
	mailer ResetMailer
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewPasswordResetService creates the service. ttl <= 0 uses DefaultResetTTL.
func NewPasswordResetService(users repository.UserRepository, mailer ResetMailer, secret string, ttl time.Duration) *PasswordResetService {
	if ttl <= 0 {
		ttl = DefaultResetTTL
	}
	return &PasswordResetService{users: users, mailer: mailer, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// EncodeUID is the URL form of a user id.
func EncodeUID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

func decodeUID(uidb64 string) (uint, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(uidb64)
	if err != nil {
		return 0, false
	}
	return utils.ParseID(string(raw))
}

// ResetPath is the site path of user's reset link.
func ResetPath(user *models.User, token string) string {
	return "/auth/reset/" + EncodeUID(user.ID) + "/" + token + "/"
}

func (s *PasswordResetService) key(user *models.User) []byte {
	key := make([]byte, 0, len(s.secret)+len(user.Password))
	key = append(key, s.secret...)
	return append(key, user.Password...)
}

// Token issues a reset token for user.
func (s *PasswordResetService) Token(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		Issuer:    resetIssuer,
		Audience:  jwt.ClaimStrings{resetAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key(user))
}

// Request mails a reset link to every account registered with email.
// Unknown addresses are not reported to the caller.
func (s *PasswordResetService) Request(ctx context.Context, email, siteURL string) (int, error) {
	users, err := s.users.ListByEmail(ctx, email)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range users {
		user := &users[i]
		token, err := s.Token(user)
		if err != nil {
			return sent, models.NewInternalError(fmt.Errorf("sign reset token: %w", err))
		}
		msg, err := s.mailer.Render("password_reset", user.Email, ResetEmail{
			Username: user.Username,
			Link:     siteURL + ResetPath(user, token),
			Site:     siteURL,
			Hours:    int(s.ttl / time.Hour),
		})
		if err != nil {
			return sent, models.NewInternalError(err)
		}
		if err := s.mailer.Send(msg); err != nil {
			return sent, models.NewInternalError(err)
		}
		sent++
	}
	return sent, nil
}

// Resolve returns the user a reset link belongs to.
func (s *PasswordResetService) Resolve(ctx context.Context, uidb64, token string) (*models.User, error) {
	id, ok := decodeUID(uidb64)
	if !ok {
		return nil, ErrInvalidResetLink
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, ErrInvalidResetLink
		}
		return nil, err
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.key(user), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(resetIssuer),
		jwt.WithAudience(resetAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.Subject != strconv.FormatUint(uint64(user.ID), 10) {
		return nil, ErrInvalidResetLink
	}
	return user, nil
}

// SetPassword redeems a reset link. The link is spent once the password changes.
func (s *PasswordResetService) SetPassword(ctx context.Context, uidb64, token, password string) (*models.User, error) {
	user, err := s.Resolve(ctx, uidb64, token)
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user.Password = hash
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
