package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-account-service/pkg/helpers"
	"github.com/oksasatya/go-ddd-account-service/pkg/response"
	"github.com/oksasatya/go-ddd-account-service/pkg/validation"
)

type AccountHandler struct {
	Accounts Accounts
	Sessions Sessions
	Logger   *logrus.Logger
	Cookies  *helpers.Manager
}

func NewAccountHandler(accounts Accounts, sessions Sessions, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AccountHandler {
	return &AccountHandler{Accounts: accounts, Sessions: sessions, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

// Register creates an account, sends the verification notification and
// signs the new account in.
func (h *AccountHandler) Register(c *gin.Context) {
	attrs, err := bindAttributes(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ctx := c.Request.Context()
	a, err := h.Accounts.Create(ctx, attrs, true)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Accounts.SendRegistrationVerification(ctx, a)

	pair, err := h.Sessions.IssueTokens(ctx, a)
	if err != nil {
		// the account exists; the client can still log in
		helpers.LogError(h.Logger, "issue tokens after register failed", err, logrus.Fields{"account_id": a.ID})
		response.OK(c, http.StatusCreated, a, "registered", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.OK(c, http.StatusCreated, a, "registered", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *AccountHandler) GetProfile(c *gin.Context) {
	a, err := h.Accounts.GetAccount(c.Request.Context(), accountID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, a, "profile", nil)
}

// UpdateProfile replaces the profile. first_name, last_name and email are
// required on every PUT; password and photo are optional.
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	attrs, err := bindAttributes(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ctx := c.Request.Context()
	a, err := h.Accounts.GetAccount(ctx, accountID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if _, err := h.Accounts.Update(ctx, a, attrs, true); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, a, "profile updated", nil)
}

func (h *AccountHandler) DeleteProfilePhoto(c *gin.Context) {
	ctx := c.Request.Context()
	a, err := h.Accounts.GetAccount(ctx, accountID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if err := h.Accounts.DeleteProfilePhoto(ctx, a); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, a, "profile photo removed", nil)
}

func (h *AccountHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Accounts.SearchAccounts(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, hits, "accounts", map[string]any{"count": len(hits)})
}
