package controllers

import (
	"net/http"
	"time"

	models "GameHub/models/postgres"
	socketio_types "GameHub/services/socket_io/types"
	"GameHub/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func friendUserInfo(u *models.User) gin.H {
	return gin.H{
		"user_id":             u.ID,
		"username":            u.Username,
		"display_name":        u.DisplayName,
		"profile_picture_url": u.ProfilePictureURL,
	}
}

// findFriendshipEdge loads the edge between two users in either direction.
func findFriendshipEdge(db *gorm.DB, a, b string) (*models.Friendship, error) {
	var friendship models.Friendship
	err := db.Where(
		"(initiator_id = ? AND recipient_id = ?) OR (initiator_id = ? AND recipient_id = ?)",
		a, b, b, a,
	).First(&friendship).Error
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

// @Summary Send a friend request
// @Description Creates a PENDING edge; the recipient gets a socket notification if online
// @Tags friends
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param user_id path string true "Recipient user id"
// @Success 201 {object} object{friendship_id=string,friendship_status=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/friends/requests/{user_id} [post]
// @Security ApiKeyAuth
func SendFriendRequest(db *gorm.DB, sio *socketio_types.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		recipientID := c.Param("user_id")
		if recipientID == user.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send a friend request to yourself"})
			return
		}
		recipient, err := utils.FindUserByID(db, recipientID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		if existing, err := findFriendshipEdge(db, user.ID, recipient.ID); err == nil {
			if existing.Status == models.FriendshipAccepted {
				c.JSON(http.StatusConflict, gin.H{"error": "You are already friends"})
			} else {
				c.JSON(http.StatusConflict, gin.H{"error": "A friend request already exists between you"})
			}
			return
		}

		friendship := models.Friendship{
			InitiatorID: user.ID,
			RecipientID: recipient.ID,
			Date:        time.Now(),
			Status:      models.FriendshipPending,
		}
		if err := db.Create(&friendship).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error sending friend request"})
			return
		}

		sio.NotifyUser(recipient.ID, "friend_request", gin.H{
			"friendship_id": friendship.ID,
			"from":          friendUserInfo(user),
		})

		c.JSON(http.StatusCreated, gin.H{
			"friendship_id":     friendship.ID,
			"user_id_initiator": friendship.InitiatorID,
			"user_id_recipient": friendship.RecipientID,
			"friendship_status": friendship.Status,
		})
	}
}

// @Summary Accept a friend request
// @Description Only the recipient can accept; the initiator gets a socket notification
// @Tags friends
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param friendship_id path string true "Friendship id"
// @Success 200 {object} object{friendship_id=string,friendship_status=string}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/friends/{friendship_id}/accept [post]
// @Security ApiKeyAuth
func AcceptFriendRequest(db *gorm.DB, sio *socketio_types.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		var friendship models.Friendship
		if err := db.Where("id = ?", c.Param("friendship_id")).First(&friendship).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found"})
			return
		}
		if friendship.RecipientID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the recipient can accept a friend request"})
			return
		}
		if friendship.Status == models.FriendshipAccepted {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Friend request already accepted"})
			return
		}

		friendship.Status = models.FriendshipAccepted
		if err := db.Save(&friendship).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error accepting friend request"})
			return
		}

		sio.NotifyUser(friendship.InitiatorID, "friend_accepted", gin.H{
			"friendship_id": friendship.ID,
			"by":            friendUserInfo(user),
		})

		c.JSON(http.StatusOK, gin.H{
			"friendship_id":     friendship.ID,
			"friendship_status": friendship.Status,
		})
	}
}

// @Summary Reject a pending friend request
// @Description Either party can reject while the request is still PENDING
// @Tags friends
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param friendship_id path string true "Friendship id"
// @Success 204
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/friends/requests/{friendship_id} [delete]
// @Security ApiKeyAuth
func RejectFriendRequest(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		var friendship models.Friendship
		if err := db.Where("id = ?", c.Param("friendship_id")).First(&friendship).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found"})
			return
		}
		if friendship.InitiatorID != user.ID && friendship.RecipientID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to reject this friend request"})
			return
		}
		if friendship.Status != models.FriendshipPending {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only pending requests can be rejected"})
			return
		}

		if err := db.Delete(&friendship).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error rejecting friend request"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary Remove a friendship
// @Description Either friend, or an admin, can remove an accepted friendship
// @Tags friends
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param friendship_id path string true "Friendship id"
// @Success 204
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/friends/{friendship_id} [delete]
// @Security ApiKeyAuth
func RemoveFriendship(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		var friendship models.Friendship
		if err := db.Where("id = ?", c.Param("friendship_id")).First(&friendship).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Friendship not found"})
			return
		}
		involved := friendship.InitiatorID == user.ID || friendship.RecipientID == user.ID
		if !involved && user.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to remove this friendship"})
			return
		}

		if err := db.Delete(&friendship).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error removing friendship"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary List accepted friends
// @Tags friends
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object{friendship_id=string,username=string}
// @Router /auth/friends [get]
// @Security ApiKeyAuth
func ListFriends(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		var friendships []models.Friendship
		err = db.Where("(initiator_id = ? OR recipient_id = ?) AND status = ?",
			user.ID, user.ID, models.FriendshipAccepted).
			Find(&friendships).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching friends"})
			return
		}

		friends := make([]gin.H, 0, len(friendships))
		for i := range friendships {
			friendID := friendships[i].InitiatorID
			if friendID == user.ID {
				friendID = friendships[i].RecipientID
			}
			var friend models.User
			if err := db.Where("id = ?", friendID).First(&friend).Error; err != nil {
				continue
			}
			entry := friendUserInfo(&friend)
			entry["friendship_id"] = friendships[i].ID
			entry["friendship_date"] = friendships[i].Date
			friends = append(friends, entry)
		}
		c.JSON(http.StatusOK, friends)
	}
}

func listPendingRequests(c *gin.Context, db *gorm.DB, userID string, incoming bool) {
	column, counterpart := "recipient_id", "initiator_id"
	if !incoming {
		column, counterpart = "initiator_id", "recipient_id"
	}

	var friendships []models.Friendship
	err := db.Where(column+" = ? AND status = ?", userID, models.FriendshipPending).
		Find(&friendships).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching friend requests"})
		return
	}

	requests := make([]gin.H, 0, len(friendships))
	for i := range friendships {
		otherID := friendships[i].InitiatorID
		if counterpart == "recipient_id" {
			otherID = friendships[i].RecipientID
		}
		var other models.User
		if err := db.Where("id = ?", otherID).First(&other).Error; err != nil {
			continue
		}
		entry := friendUserInfo(&other)
		entry["friendship_id"] = friendships[i].ID
		entry["friendship_date"] = friendships[i].Date
		requests = append(requests, entry)
	}
	c.JSON(http.StatusOK, requests)
}

// @Summary List incoming pending friend requests
// @Tags friends
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object{friendship_id=string,username=string}
// @Router /auth/friends/requests/incoming [get]
// @Security ApiKeyAuth
func GetIncomingRequests(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}
		listPendingRequests(c, db, user.ID, true)
	}
}

// @Summary List outgoing pending friend requests
// @Tags friends
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object{friendship_id=string,username=string}
// @Router /auth/friends/requests/outgoing [get]
// @Security ApiKeyAuth
func GetOutgoingRequests(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}
		listPendingRequests(c, db, user.ID, false)
	}
}

// @Summary Check friendship status with another user
// @Tags friends
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param user_id path string true "Other user id"
// @Success 200 {object} object{status=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/friends/status/{user_id} [get]
// @Security ApiKeyAuth
func CheckFriendship(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		other, err := utils.FindUserByID(db, c.Param("user_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		friendship, err := findFriendshipEdge(db, user.ID, other.ID)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"status": "NONE"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":        friendship.Status,
			"friendship_id": friendship.ID,
			"initiated_by":  friendship.InitiatorID,
		})
	}
}

// @Summary List mutual friends with another user
// @Tags friends
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param user_id path string true "Other user id"
// @Success 200 {array} object{user_id=string,username=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/friends/mutual/{user_id} [get]
// @Security ApiKeyAuth
func GetMutualFriends(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(c, db)
		if err != nil {
			return
		}

		other, err := utils.FindUserByID(db, c.Param("user_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		mine, err := acceptedFriendIDs(db, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching friends"})
			return
		}
		theirs, err := acceptedFriendIDs(db, other.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching friends"})
			return
		}

		mutual := make([]gin.H, 0)
		for id := range mine {
			if !theirs[id] {
				continue
			}
			var friend models.User
			if err := db.Where("id = ?", id).First(&friend).Error; err != nil {
				continue
			}
			mutual = append(mutual, friendUserInfo(&friend))
		}
		c.JSON(http.StatusOK, mutual)
	}
}

func acceptedFriendIDs(db *gorm.DB, userID string) (map[string]bool, error) {
	var friendships []models.Friendship
	err := db.Where("(initiator_id = ? OR recipient_id = ?) AND status = ?",
		userID, userID, models.FriendshipAccepted).
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(friendships))
	for i := range friendships {
		if friendships[i].InitiatorID == userID {
			ids[friendships[i].RecipientID] = true
		} else {
			ids[friendships[i].InitiatorID] = true
		}
	}
	return ids, nil
}
