package controllers

import (
	"github.com/Govind-619/PayGate/middleware"
	"github.com/Govind-619/PayGate/services"
	"github.com/Govind-619/PayGate/utils"
	"github.com/gin-gonic/gin"
)

// SignupRequest represents the signup request body
type SignupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthController struct {
	accounts *services.AccountService
}

func NewAuthController(accounts *services.AccountService) *AuthController {
	return &AuthController{accounts: accounts}
}

// Signup handles account creation
func (ctl *AuthController) Signup(c *gin.Context) {
	utils.LogInfo("Signup called")

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Signup failed - Invalid request format: %v", err)
		utils.BadRequest(c, utils.ErrAllFieldsRequired)
		return
	}

	user, err := ctl.accounts.Signup(c.Request.Context(), services.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password1: req.Password1,
		Password2: req.Password2,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Created(c, utils.MsgAccountCreated, gin.H{"user": user.Response()})
}

// Login checks credentials and starts a session
func (ctl *AuthController) Login(c *gin.Context) {
	utils.LogInfo("Login called")

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Login attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Email and password required.")
		return
	}

	user, err := ctl.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if err := utils.SetSessionUser(c, user.ID); err != nil {
		utils.RespondError(c, utils.InternalError("Failed to start session", err))
		return
	}

	utils.LogInfo("User %d logged in", user.ID)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{"user": user.Response()})
}

// Logout ends the session
func (ctl *AuthController) Logout(c *gin.Context) {
	utils.LogInfo("Logout called")

	user, _ := middleware.CurrentUser(c)
	if err := utils.ClearSession(c); err != nil {
		utils.RespondError(c, utils.InternalError("Failed to end session", err))
		return
	}

	utils.LogInfo("User %d logged out", user.ID)
	utils.Success(c, utils.MsgLogoutSuccess, nil)
}

// CurrentUser returns the logged-in user
func (ctl *AuthController) CurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrLoginRequired)
		return
	}
	utils.Success(c, "User retrieved", gin.H{"user": user.Response()})
}
