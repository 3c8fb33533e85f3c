package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-account-service/internal/application"
	"github.com/oksasatya/go-ddd-account-service/pkg/helpers"
	"github.com/oksasatya/go-ddd-account-service/pkg/response"
	"github.com/oksasatya/go-ddd-account-service/pkg/validation"
)

type AuthHandler struct {
	Accounts Accounts
	Sessions Sessions
	Logger   *logrus.Logger
	Cookies  *helpers.Manager
}

func NewAuthHandler(accounts Accounts, sessions Sessions, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Accounts: accounts, Sessions: sessions, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type verifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, pair, err := h.Sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.OK(c, http.StatusOK, a, "login successful", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshCookie)
	if err != nil || refresh == "" {
		response.Fail(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Sessions.Refresh(c.Request.Context(), refresh)
	if errors.Is(err, application.ErrInvalidCredentials) {
		response.Fail(c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.OK[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Sessions.Logout(c.Request.Context(), accountID(c)); err != nil {
		helpers.LogError(h.Logger, "logout failed", err, logrus.Fields{"account_id": accountID(c)})
	}
	h.Cookies.Clear(c)
	response.OK[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

// VerifyEmail redeems a token from the verification email. It is public:
// the token alone identifies the account.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Accounts.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, a, "email verified", nil)
}

// SendVerificationNotification re-sends the verification email to the signed-in account.
func (h *AuthHandler) SendVerificationNotification(c *gin.Context) {
	ctx := c.Request.Context()
	a, err := h.Accounts.GetAccount(ctx, accountID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if err := h.Accounts.ResendVerification(ctx, a); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK[any](c, http.StatusAccepted, map[string]any{"sent": true}, "verification link sent", nil)
}
