package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/assetflow/asset-movement/models"
	"github.com/assetflow/asset-movement/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Register a new user
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		Name         string `json:"name" binding:"required"`
		Username     string `json:"username" binding:"required"`
		Email        string `json:"email" binding:"required,email"`
		Password     string `json:"password" binding:"required,min=8"`
		Role         string `json:"role" binding:"required"` // staff, department_head, ict, security, admin
		DepartmentID *uint  `json:"department_id"`
		BranchID     *uint  `json:"branch_id"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	switch req.Role {
	case models.RoleStaff, models.RoleDepartmentHead, models.RoleICT, models.RoleSecurity, models.RoleAdmin:
	default:
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown role"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:         req.Name,
		Username:     strings.ToLower(req.Username),
		Email:        req.Email,
		Password:     string(hashed),
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
		BranchID:     req.BranchID,
	}

	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Username, user.Role)

	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user_id": user.ID,
	})
}

// Login -> return JWT
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("username = ?", strings.ToLower(input.Username)).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_id":   user.ID,
		"user_role": user.Role,
	})
}

// Logout -> blacklist the presented token
func (uc *UserController) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token != "" {
		utils.BlacklistToken(token)
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile -> the user behind the JWT
func (uc *UserController) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.MapStoreError(err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile", user)
}

// GetAllUsers -> admin listing, optionally filtered by role
func (uc *UserController) GetAllUsers(c *gin.Context) {
	query := uc.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of users", users)
}

// currentUserID reads the authenticated user's id set by the auth middleware.
func currentUserID(c *gin.Context) (uint, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := raw.(uint)
	return id, ok
}

// currentRole reads the authenticated user's role claim.
func currentRole(c *gin.Context) string {
	raw, exists := c.Get("role")
	if !exists {
		return ""
	}
	role, _ := raw.(string)
	return role
}
