// File: /controllers/auth_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"injoy-api/services"
)

type AuthController struct {
	identity  *services.IdentityService
	jwtSecret string
}

func NewAuthController(identity *services.IdentityService, jwtSecret string) *AuthController {
	return &AuthController{
		identity:  identity,
		jwtSecret: jwtSecret,
	}
}

type SessionRequest struct {
	InitData    string `json:"init_data"`
	AnonymousID string `json:"anonymous_id"`
}

type SessionResponse struct {
	Token       string `json:"token"`
	UserID      string `json:"user_id"`
	IsAnonymous bool   `json:"is_anonymous"`
	StartTripID string `json:"start_trip_id,omitempty"`
}

// CreateSession resolves the caller's identity once and hands back a
// session token. Telegram init data wins over an anonymous id; with
// neither present a fresh anonymous identity is generated and returned so
// the client can persist it.
func (ac *AuthController) CreateSession(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, err := ac.identity.Resolve(req.InitData, req.AnonymousID)
	if err != nil {
		if err == services.ErrInvalidInitData {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid init data"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve identity"})
		return
	}

	token, err := ac.generateJWT(identity.UserID, identity.Anonymous)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		Token:       token,
		UserID:      identity.UserID,
		IsAnonymous: identity.Anonymous,
		StartTripID: identity.StartTripID,
	})
}

func (ac *AuthController) generateJWT(userID string, anonymous bool) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   userID,
		"anonymous": anonymous,
		"exp":       time.Now().Add(time.Hour * 24 * 7).Unix(), // 7 days
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(ac.jwtSecret))
}
