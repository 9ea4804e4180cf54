package handler

import (
	"crypto/subtle"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"ai-code-reviewer/internal/apperr"
	"ai-code-reviewer/internal/pkg/jwtutil"
	"ai-code-reviewer/internal/transport/http/response"
)

// AuthHandler exchanges the master access token for a short-lived signed
// token, so long-running clients never hold the master credential.
type AuthHandler struct {
	accessToken     string
	accessTokenHash string
	jwtSecret       string
	jwtExpiration   time.Duration
}

type IssueTokenRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

func NewAuthHandler(accessToken, accessTokenHash, jwtSecret string, jwtExpiration time.Duration) *AuthHandler {
	return &AuthHandler{
		accessToken:     accessToken,
		accessTokenHash: accessTokenHash,
		jwtSecret:       jwtSecret,
		jwtExpiration:   jwtExpiration,
	}
}

func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperr.Validation("access_token is required", nil))
		return
	}

	if !h.masterTokenMatches(req.AccessToken) {
		response.Fail(c, apperr.Authentication("invalid access token"))
		return
	}

	token, err := jwtutil.GenerateToken(h.jwtSecret, h.jwtExpiration, "api-client")
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, gin.H{
		"token":      token,
		"expires_at": time.Now().Add(h.jwtExpiration),
	})
}

func (h *AuthHandler) masterTokenMatches(token string) bool {
	if h.accessToken != "" &&
		subtle.ConstantTimeCompare([]byte(token), []byte(h.accessToken)) == 1 {
		return true
	}
	if h.accessTokenHash != "" &&
		bcrypt.CompareHashAndPassword([]byte(h.accessTokenHash), []byte(token)) == nil {
		return true
	}
	return false
}
