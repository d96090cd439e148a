package controllers

import (
	"errors"
	"net/http"
	"strings"

	"GameHub/middleware"
	models "GameHub/models/postgres"
	"GameHub/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// @Summary Health check
// @Description Returns pong
// @Tags misc
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// @Summary Register a new user
// @Description Creates a user account with a unique username and email
// @Tags users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param display_name formData string false "Display name"
// @Success 201 {object} object{user_id=string,username=string}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /signup [post]
func SignUp(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := strings.TrimSpace(c.PostForm("username"))
		email := strings.TrimSpace(c.PostForm("email"))
		password := c.PostForm("password")
		displayName := strings.TrimSpace(c.PostForm("display_name"))

		if username == "" || email == "" || password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username, email and password are required"})
			return
		}

		// Explicit existence checks give distinct messages; the unique
		// indexes remain the final word under concurrent signups.
		var existing models.User
		if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
			return
		}
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user account"})
			return
		}

		user := models.User{
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			DisplayName:  displayName,
		}
		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Username or email already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user account"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"user_id":  user.ID,
			"username": user.Username,
		})
	}
}

// @Summary Log in
// @Description Verifies credentials and returns a bearer token
// @Tags users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} object{access_token=string,token_type=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /login [post]
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		username := c.PostForm("username")
		password := c.PostForm("password")

		// Minimum input sanitizing
		if strings.Trim(username, " ") == "" || strings.Trim(password, " ") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
			return
		}

		var user models.User
		if err := db.Where("username = ?", username).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
			return
		}

		token, err := middleware.GenerateToken(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
			return
		}

		session.Set("user_id", user.ID)
		if err := session.Save(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
	}
}

// Logout deletes the session associated with the user_id key
// @Summary Log out
// @Description Clears the session cookie
// @Tags users
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/logout [delete]
// @Security ApiKeyAuth
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get("user_id")
	if user == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session token"})
		return
	}

	session.Delete("user_id")
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// @Summary Get own profile
// @Description Returns the authenticated user's private profile
// @Tags users
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} postgres.User
// @Failure 401 {object} object{error=string}
// @Router /auth/me [get]
// @Security ApiKeyAuth
func GetUserPrivateInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// @Summary Update own profile
// @Description Updates email, display name or profile picture URL
// @Tags users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param email formData string false "New email"
// @Param display_name formData string false "New display name"
// @Param profile_picture_url formData string false "New profile picture URL"
// @Success 200 {object} postgres.User
// @Failure 400 {object} object{error=string}
// @Router /auth/update [patch]
// @Security ApiKeyAuth
func UpdateUserInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		if email := strings.TrimSpace(c.PostForm("email")); email != "" {
			var other models.User
			if err := db.Where("email = ? AND id <> ?", email, user.ID).First(&other).Error; err == nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Email already in use"})
				return
			}
			user.Email = email
		}
		if displayName, ok := c.GetPostForm("display_name"); ok {
			user.DisplayName = displayName
		}
		if pictureURL, ok := c.GetPostForm("profile_picture_url"); ok {
			user.ProfilePictureURL = pictureURL
		}

		if err := db.Save(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Email already in use"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating profile"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// @Summary Search users
// @Description Searches users by username or display name, for finding friends
// @Tags users
// @Produce json
// @Param query query string true "Search text"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {array} object{user_id=string,username=string,display_name=string,profile_picture_url=string}
// @Router /users/search [get]
func SearchUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("query"))
		if query == "" {
			c.JSON(http.StatusOK, []gin.H{})
			return
		}

		skip, limit := utils.Pagination(c, 50)

		var users []models.User
		pattern := "%" + strings.ToLower(query) + "%"
		result := db.Where("LOWER(username) LIKE ? OR LOWER(display_name) LIKE ?", pattern, pattern).
			Offset(skip).Limit(limit).Find(&users)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error searching users"})
			return
		}

		simplified := make([]gin.H, 0, len(users))
		for _, u := range users {
			simplified = append(simplified, gin.H{
				"user_id":             u.ID,
				"username":            u.Username,
				"display_name":        u.DisplayName,
				"profile_picture_url": u.ProfilePictureURL,
			})
		}
		c.JSON(http.StatusOK, simplified)
	}
}

// @Summary Get a user's public profile
// @Tags users
// @Produce json
// @Param user_id path string true "User id"
// @Success 200 {object} object{user_id=string,username=string,display_name=string,profile_picture_url=string,join_date=string}
// @Failure 404 {object} object{error=string}
// @Router /users/{user_id} [get]
func GetUserPublicInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.FindUserByID(db, c.Param("user_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user_id":             user.ID,
			"username":            user.Username,
			"display_name":        user.DisplayName,
			"profile_picture_url": user.ProfilePictureURL,
			"join_date":           user.JoinDate,
		})
	}
}

// @Summary List all users
// @Description Admin only
// @Tags users
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} postgres.User
// @Failure 403 {object} object{error=string}
// @Router /auth/admin/users [get]
// @Security ApiKeyAuth
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		skip, limit := utils.Pagination(c, 50)

		var users []models.User
		if err := db.Offset(skip).Limit(limit).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching users"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// @Summary Delete a user
// @Description Admin only. Removes the user and, through cascades, every dependent row.
// @Tags users
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param user_id path string true "User id"
// @Success 204
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/admin/users/{user_id} [delete]
// @Security ApiKeyAuth
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		targetID := c.Param("user_id")
		if targetID == admin.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
			return
		}

		user, err := utils.FindUserByID(db, targetID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		if err := db.Delete(user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting user"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary Change a user's role
// @Description Admin only
// @Tags users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param user_id path string true "User id"
// @Param role formData string true "USER or ADMIN"
// @Success 200 {object} postgres.User
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/admin/users/{user_id}/role [patch]
// @Security ApiKeyAuth
func ChangeUserRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.Role(c.PostForm("role"))
		if role != models.RoleUser && role != models.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be USER or ADMIN"})
			return
		}

		user, err := utils.FindUserByID(db, c.Param("user_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		user.Role = role
		if err := db.Save(user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating role"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
