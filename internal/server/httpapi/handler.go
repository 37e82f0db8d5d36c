package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/profiledash/internal/account"
	"github.com/dmitrijs2005/profiledash/internal/accountrpc"
	"github.com/dmitrijs2005/profiledash/internal/common"
	"github.com/dmitrijs2005/profiledash/internal/logging"
	"github.com/dmitrijs2005/profiledash/internal/server/throttle"
	"github.com/dmitrijs2005/profiledash/internal/validate"
	"github.com/gin-gonic/gin"
)

const (
	accountIDKey = "accountID"
	tokenKey     = "token"
)

type handler struct {
	accounts accountService
	limiter  *throttle.PeerLimiter
	logger   logging.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  account.Summary `json:"user"`
	Token string          `json:"token"`
}

func (h *handler) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.logger.Debug(c.Request.Context(), "http request",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"duration", time.Since(start),
	)
}

func (h *handler) requireAuth(c *gin.Context) {
	token := accountrpc.BearerToken(c.GetHeader(common.AuthorizationHeaderName))
	if token == "" {
		h.fail(c, account.ErrMissingToken)
		return
	}

	id, err := h.accounts.ResolveToken(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Set(accountIDKey, id)
	c.Set(tokenKey, token)
	c.Next()
}

func (h *handler) login(c *gin.Context) {
	if !h.limiter.Allow(c.ClientIP()) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": throttle.MsgTooManyAttempts})
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	summary, token, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{User: summary, Token: token})
}

func (h *handler) logout(c *gin.Context) {
	if err := h.accounts.EndSession(c.Request.Context(), c.GetString(tokenKey)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *handler) profile(c *gin.Context) {
	p, err := h.accounts.Profile(c.Request.Context(), c.GetInt64(accountIDKey))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handler) updateProfile(c *gin.Context) {
	var patch account.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	p, err := h.accounts.UpdateProfile(c.Request.Context(), c.GetInt64(accountIDKey), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// fail writes err as {"error": message} with the matching status code.
func (h *handler) fail(c *gin.Context, err error) {
	var verrs validate.Errors

	code := http.StatusInternalServerError
	msg := "Internal server error"

	switch {
	case errors.Is(err, account.ErrInvalidCredentials), errors.Is(err, account.ErrMissingToken):
		code, msg = http.StatusUnauthorized, account.Message(err)
	case errors.Is(err, account.ErrAccountNotFound):
		code, msg = http.StatusNotFound, account.Message(err)
	case errors.As(err, &verrs):
		code, msg = http.StatusBadRequest, verrs.Error()
	default:
		h.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}

	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}
