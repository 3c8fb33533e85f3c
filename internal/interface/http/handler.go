package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-account-service/internal/application"
	"github.com/oksasatya/go-ddd-account-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-account-service/pkg/response"
	"github.com/oksasatya/go-ddd-account-service/pkg/upload"
	"github.com/oksasatya/go-ddd-account-service/pkg/validation"
)

// Accounts is the account use case surface the handlers need.
type Accounts interface {
	Create(ctx context.Context, attrs entity.Attributes, validate bool) (*entity.Account, error)
	Update(ctx context.Context, a *entity.Account, attrs entity.Attributes, validate bool) (bool, error)
	DeleteProfilePhoto(ctx context.Context, a *entity.Account) error
	GetAccount(ctx context.Context, id string) (*entity.Account, error)
	VerifyEmail(ctx context.Context, token string) (*entity.Account, error)
	ResendVerification(ctx context.Context, a *entity.Account) error
	SendRegistrationVerification(ctx context.Context, a *entity.Account)
	SearchAccounts(ctx context.Context, q string, size int) ([]map[string]any, error)
}

// Sessions issues, rotates and revokes login sessions.
type Sessions interface {
	IssueTokens(ctx context.Context, a *entity.Account) (application.TokenPair, error)
	Login(ctx context.Context, email, password string) (*entity.Account, application.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (application.TokenPair, string, error)
	Logout(ctx context.Context, accountID string) error
}

// bindAttributes reads a JSON, urlencoded or multipart body into an attribute
// map. The multipart "photo" file becomes an *upload.File.
func bindAttributes(c *gin.Context) (entity.Attributes, error) {
	attrs := entity.Attributes{}
	switch c.ContentType() {
	case binding.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		for k, vs := range form.Value {
			if len(vs) > 0 {
				attrs[k] = vs[0]
			}
		}
		if fhs := form.File["photo"]; len(fhs) > 0 {
			attrs["photo"] = upload.FromMultipart(fhs[0])
		}
	case binding.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, err
		}
		for k, vs := range c.Request.PostForm {
			if len(vs) > 0 {
				attrs[k] = vs[0]
			}
		}
	default:
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			if errors.Is(err, io.EOF) {
				return attrs, nil
			}
			return nil, err
		}
		for k, v := range body {
			attrs[k] = v
		}
	}
	return attrs, nil
}

func accountID(c *gin.Context) string {
	return c.GetString(middleware.CtxAccountIDKey)
}

// fail maps use case errors onto the response envelope.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	if fields, ok := validation.Fields(err); ok {
		response.Fail(c, http.StatusUnprocessableEntity, "validation failed", fields)
		return
	}
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, application.ErrAccountNotFound):
		response.Fail(c, http.StatusNotFound, "account not found", nil)
	case errors.Is(err, application.ErrInvalidToken):
		response.Fail(c, http.StatusBadRequest, "invalid or expired token", nil)
	case errors.Is(err, application.ErrAlreadyVerified):
		response.Fail(c, http.StatusConflict, "email already verified", nil)
	case errors.Is(err, application.ErrNoPhoto):
		response.Fail(c, http.StatusNotFound, "no profile photo", nil)
	case errors.Is(err, application.ErrPhotoStorage):
		logError(c, logger, err)
		response.Fail(c, http.StatusBadGateway, "photo storage unavailable", nil)
	default:
		logError(c, logger, err)
		response.Fail(c, http.StatusInternalServerError, "internal error", nil)
	}
}

func logError(c *gin.Context, logger *logrus.Logger, err error) {
	if logger == nil {
		return
	}
	logger.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.FullPath(),
	}).Error("request failed")
}
