// Package auth issues and verifies session tokens and resolves the caller
// of every API operation into an explicit Identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/itinerary-api/internal/config"
	"github.com/gdg-garage/itinerary-api/internal/metrics"
	"github.com/gdg-garage/itinerary-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	CookieName      = "auth_token"
	RefreshHeader   = "X-Auth-Token"
	DefaultTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidToken       = errors.New("invalid token")
)

type AuthHandler struct {
	oauthConfig *oauth2.Config
	db          *gorm.DB
	cfg         *config.Config
	metrics     metrics.Recorder
	userAPI     string
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB, rec metrics.Recorder) *AuthHandler {
	if rec == nil {
		rec = (*metrics.Collector)(nil)
	}
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURL,
			Scopes:       []string{"identify", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  DiscordAuthorizeEndpoint,
				TokenURL: DiscordTokenEndpoint,
			},
		},
		db:      db,
		cfg:     cfg,
		metrics: rec,
		userAPI: DiscordUserAPI,
	}
}

func (h *AuthHandler) tokenTTL() time.Duration {
	if h.cfg.TokenTTL > 0 {
		return h.cfg.TokenTTL
	}
	return DefaultTokenTTL
}

// Claims is the payload of a session token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (h *AuthHandler) GenerateToken(userID, email string) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.tokenTTL())),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// ParseToken verifies signature and expiry and returns the claims.
func (h *AuthHandler) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a password account.
func (h *AuthHandler) Signup(ctx context.Context, email, password, name string) (*models.User, error) {
	email = normalizeEmail(email)

	var existing int64
	if err := h.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if existing > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash), Name: name}
	if err := h.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// Authenticate checks a password login. Unknown emails and wrong passwords
// both return ErrInvalidCredentials.
func (h *AuthHandler) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := h.db.WithContext(ctx).First(&user, "email = ?", normalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

type UserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	ProfilePhoto string `json:"profile_photo,omitempty"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, ProfilePhoto: u.ProfilePhoto}
}

type SignupInput struct {
	Body struct {
		Email    string `json:"email" format:"email" doc:"Login email"`
		Password string `json:"password" minLength:"6" doc:"Password, at least 6 characters"`
		Name     string `json:"name,omitempty" maxLength:"100" doc:"Display name"`
	}
}

type LoginInput struct {
	Body struct {
		Email    string `json:"email" format:"email"`
		Password string `json:"password" minLength:"1"`
	}
}

type SessionOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Token string       `json:"token"`
		User  UserResponse `json:"user"`
	}
}

func (h *AuthHandler) sessionCookie(token string) http.Cookie {
	return http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenTTL()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) newSession(user *models.User) (*SessionOutput, error) {
	token, err := h.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}
	out := &SessionOutput{SetCookie: h.sessionCookie(token)}
	out.Body.Token = token
	out.Body.User = NewUserResponse(user)
	return out, nil
}

func (h *AuthHandler) HandleSignup(ctx context.Context, input *SignupInput) (*SessionOutput, error) {
	user, err := h.Signup(ctx, input.Body.Email, input.Body.Password, strings.TrimSpace(input.Body.Name))
	if errors.Is(err, ErrEmailTaken) {
		return nil, huma.Error400BadRequest("User with this email already exists")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to create user")
	}
	return h.newSession(user)
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginInput) (*SessionOutput, error) {
	user, err := h.Authenticate(ctx, input.Body.Email, input.Body.Password)
	h.metrics.RecordLogin("password", err == nil)
	if errors.Is(err, ErrInvalidCredentials) {
		return nil, huma.Error401Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to log in")
	}
	return h.newSession(user)
}

type MeOutput struct {
	Body UserResponse
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *struct{}) (*MeOutput, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("User not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	return &MeOutput{Body: NewUserResponse(&user)}, nil
}
