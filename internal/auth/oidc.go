package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/serdchef/coskunyayci-backend/internal/config"
	"github.com/serdchef/coskunyayci-backend/internal/models"
	"github.com/serdchef/coskunyayci-backend/internal/repository"
	"github.com/serdchef/coskunyayci-backend/internal/services"
)

// OIDCHandler wires external identity-provider logins. A user record is
// created on first login; local JWTs are issued so the rest of the API
// does not care how the session started.
type OIDCHandler struct {
	verifier *oidc.IDTokenVerifier
	oauth2   *oauth2.Config
	users    repository.UserRepository
	tokens   *services.TokenService
	logger   *zap.Logger
}

// NewOIDCHandler discovers the provider. Returns nil when no issuer is
// configured so the routes can simply be skipped.
func NewOIDCHandler(ctx context.Context, cfg config.Config, users repository.UserRepository, tokens *services.TokenService, logger *zap.Logger) (*OIDCHandler, error) {
	if cfg.OIDCIssuer == "" {
		return nil, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, err
	}

	return &OIDCHandler{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID}),
		oauth2: &oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email", "phone"},
		},
		users:  users,
		tokens: tokens,
		logger: logger,
	}, nil
}

// Login redirects to the provider's authorization endpoint.
func (h *OIDCHandler) Login(c *gin.Context) {
	state := randomState()
	sess := sessions.Default(c)
	sess.Set("oidc_state", state)
	if err := sess.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start login"})
		return
	}
	c.Redirect(http.StatusFound, h.oauth2.AuthCodeURL(state))
}

// Callback exchanges the code, verifies the ID token and upserts the user.
func (h *OIDCHandler) Callback(c *gin.Context) {
	sess := sessions.Default(c)
	wantState, _ := sess.Get("oidc_state").(string)
	sess.Delete("oidc_state")
	_ = sess.Save()

	if wantState == "" || c.Query("state") != wantState {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code missing"})
		return
	}

	ctx := c.Request.Context()
	oauth2Token, err := h.oauth2.Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token exchange failed"})
		return
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no id_token in token response"})
		return
	}

	idToken, err := h.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token verification failed"})
		return
	}

	var claims struct {
		Sub   string `json:"sub"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone_number"`
	}
	if err := idToken.Claims(&claims); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "claims parse error"})
		return
	}

	user, err := h.users.FindByOIDCSub(ctx, claims.Sub)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			h.logger.Error("oidc user lookup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		user = &models.User{
			OIDCSub: claims.Sub,
			Name:    claims.Name,
			Email:   claims.Email,
			Phone:   claims.Phone,
			Role:    models.RoleCustomer,
		}
		if err := h.users.Create(ctx, user); err != nil {
			h.logger.Error("oidc user create failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		h.logger.Info("created user from oidc login", zap.String("email", user.Email))
	}

	pair, err := h.tokens.GenerateTokenPair(user.ID.String(), user.Email, user.Role)
	if err != nil {
		h.logger.Error("oidc token issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "tokens": pair})
}

func randomState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
