package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/kids-story-backend/middleware"
	"github.com/vnkhanh/kids-story-backend/services"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginInput struct {
	IDToken string `json:"id_token" binding:"required"`
}

func (h *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.auth.SignIn(c.Request.Context(), input.Email, input.Password, clientMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSession(c, session)
}

func (h *AuthController) GoogleLogin(c *gin.Context) {
	var input GoogleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.auth.SignInGoogle(c.Request.Context(), input.IDToken, clientMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSession(c, session)
}

// Session returns the current session; runs behind AuthMiddleware
func (h *AuthController) Session(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": withoutToken(session)})
}

func (h *AuthController) Refresh(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or malformed Authorization header"})
		return
	}

	session, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSession(c, session)
}

func (h *AuthController) Logout(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or malformed Authorization header"})
		return
	}

	if err := h.auth.SignOut(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out."})
}

func respondSession(c *gin.Context, session *services.Session) {
	c.JSON(http.StatusOK, gin.H{
		"token":   session.Token,
		"session": withoutToken(session),
	})
}

func withoutToken(session *services.Session) services.Session {
	s := *session
	s.Token = ""
	return s
}

func clientMeta(c *gin.Context) services.ClientMeta {
	return services.ClientMeta{UserAgent: c.Request.UserAgent(), IPAddress: c.ClientIP()}
}
