package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/itinerary-api/internal/models"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	DiscordAuthorizeEndpoint = "https://discord.com/api/oauth2/authorize"
	DiscordTokenEndpoint     = "https://discord.com/api/oauth2/token"
	DiscordUserAPI           = "https://discord.com/api/users/@me"
	discordAvatarURL         = "https://cdn.discordapp.com/avatars/%s/%s.png"
	stateCookieName          = "oauth_state"
)

type discordUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

type DiscordLoginOutput struct {
	Status    int
	Location  string      `header:"Location"`
	SetCookie http.Cookie `header:"Set-Cookie"`
}

// HandleDiscordLogin redirects to the Discord consent screen with a fresh
// state value that the callback checks against a cookie.
func (h *AuthHandler) HandleDiscordLogin(ctx context.Context, input *struct{}) (*DiscordLoginOutput, error) {
	if !h.cfg.DiscordLoginEnabled() {
		return nil, huma.Error404NotFound("Discord login is not configured")
	}

	state := uuid.NewString()
	return &DiscordLoginOutput{
		Status:   http.StatusTemporaryRedirect,
		Location: h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline),
		SetCookie: http.Cookie{
			Name:     stateCookieName,
			Value:    state,
			Path:     "/auth/discord",
			Expires:  time.Now().Add(10 * time.Minute),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}, nil
}

type DiscordCallbackInput struct {
	Code        string `query:"code"`
	State       string `query:"state"`
	StateCookie string `cookie:"oauth_state"`
}

func (h *AuthHandler) HandleDiscordCallback(ctx context.Context, input *DiscordCallbackInput) (*SessionOutput, error) {
	if !h.cfg.DiscordLoginEnabled() {
		return nil, huma.Error404NotFound("Discord login is not configured")
	}
	if input.Code == "" {
		return nil, huma.Error400BadRequest("Code not found")
	}
	if input.State == "" || input.State != input.StateCookie {
		return nil, huma.Error400BadRequest("Invalid OAuth state")
	}

	profile, err := h.fetchDiscordUser(ctx, input.Code)
	if err != nil {
		h.metrics.RecordLogin("discord", false)
		slog.Warn("discord login failed", slog.String("error", err.Error()))
		return nil, huma.Error502BadGateway("Failed to authenticate with Discord")
	}
	if profile.Email == "" {
		h.metrics.RecordLogin("discord", false)
		return nil, huma.Error400BadRequest("Discord account has no email address")
	}

	user, err := h.linkDiscordUser(ctx, profile)
	h.metrics.RecordLogin("discord", err == nil)
	if err != nil {
		slog.Error("failed to save discord user", slog.String("discord_id", profile.ID), slog.String("error", err.Error()))
		return nil, huma.Error500InternalServerError("Failed to save user")
	}
	return h.newSession(user)
}

func (h *AuthHandler) fetchDiscordUser(ctx context.Context, code string) (*discordUser, error) {
	token, err := h.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code: %w", err)
	}

	resp, err := h.oauthConfig.Client(ctx, token).Get(h.userAPI)
	if err != nil {
		return nil, fmt.Errorf("getting user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("getting user info: status %d", resp.StatusCode)
	}

	var profile discordUser
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decoding user info: %w", err)
	}
	if profile.ID == "" {
		return nil, errors.New("user info without id")
	}
	return &profile, nil
}

// linkDiscordUser finds the account by Discord id, then by email, and
// creates one when neither matches.
func (h *AuthHandler) linkDiscordUser(ctx context.Context, profile *discordUser) (*models.User, error) {
	var user models.User
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&user, "discord_id = ?", profile.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = tx.First(&user, "email = ?", normalizeEmail(profile.Email)).Error
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{Email: normalizeEmail(profile.Email)}
		} else if err != nil {
			return err
		}

		user.DiscordID = &profile.ID
		if user.Name == "" {
			user.Name = profile.Username
		}
		if profile.Avatar != "" {
			user.ProfilePhoto = fmt.Sprintf(discordAvatarURL, profile.ID, profile.Avatar)
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
