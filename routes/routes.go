package routes

import (
	"GameHub/controllers"
	"GameHub/middleware"
	"GameHub/services/rawg"
	"GameHub/services/redis"
	socketio_types "GameHub/services/socket_io/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient, sio *socketio_types.SocketServer) {
	rawgService := rawg.NewService(redisClient)

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	// Accounts
	api.POST("/signup", controllers.SignUp(db))
	api.POST("/login", controllers.Login(db))

	// Public user lookups
	api.GET("/users/search", controllers.SearchUsers(db))
	api.GET("/users/active", controllers.ActiveUsers(db))
	api.GET("/users/:user_id", controllers.GetUserPublicInfo(db))

	// Public catalog
	api.GET("/games", controllers.ListGames(db))
	api.GET("/games/top-rated", controllers.TopRatedGames(db))
	api.GET("/games/statistics", controllers.GameStatistics(db))
	api.GET("/games/rawg/search", controllers.SearchRAWG(rawgService))
	api.GET("/games/:game_id", controllers.GetGame(db))

	// Public reviews, collections and achievements
	api.GET("/reviews/games/:game_id", controllers.GetGameReviews(db))
	api.GET("/reviews/users/:user_id", controllers.GetUserReviews(db))
	api.GET("/collection/:user_id", controllers.GetUserCollection(db))
	api.GET("/achievements/games/:game_id", controllers.GetGameAchievements(db))

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired)
	{
		authentication.DELETE("/logout", controllers.Logout)
		authentication.GET("/me", controllers.GetUserPrivateInfo(db))
		authentication.PATCH("/update", controllers.UpdateUserInfo(db))

		// Catalog import
		authentication.POST("/games/rawg/:rawg_id/import", controllers.ImportFromRAWG(db, rawgService))

		// Collection
		authentication.GET("/collection", controllers.GetMyCollection(db))
		authentication.POST("/collection/:game_id", controllers.AddToCollection(db))
		authentication.PATCH("/collection/:game_id/status", controllers.UpdatePlayStatus(db))
		authentication.PATCH("/collection/:game_id/rating", controllers.UpdateCollectionRating(db))
		authentication.PATCH("/collection/:game_id/notes", controllers.UpdateCollectionNotes(db))
		authentication.DELETE("/collection/:game_id", controllers.RemoveFromCollection(db))

		// Reviews
		authentication.POST("/reviews/games/:game_id", controllers.CreateReview(db))
		authentication.GET("/reviews/games/:game_id/mine", controllers.GetMyReviewForGame(db))
		authentication.GET("/reviews/mine", controllers.GetMyReviews(db))
		authentication.PUT("/reviews/:review_id", controllers.UpdateReview(db))
		authentication.DELETE("/reviews/:review_id", controllers.DeleteReview(db))

		// Play sessions
		authentication.GET("/sessions", controllers.ListSessions(db))
		authentication.POST("/sessions/games/:game_id/start", controllers.StartSession(db))
		authentication.GET("/sessions/games/:game_id/playtime", controllers.GamePlaytimeStats(db))
		authentication.GET("/sessions/stats/playtime", controllers.PlaytimeStats(db))
		authentication.GET("/sessions/:session_id", controllers.GetSession(db))
		authentication.POST("/sessions/:session_id/end", controllers.EndSession(db))
		authentication.PATCH("/sessions/:session_id/notes", controllers.UpdateSessionNotes(db))
		authentication.DELETE("/sessions/:session_id", controllers.DeleteSession(db))

		// Achievements
		authentication.GET("/achievements/mine", controllers.GetMyAchievements(db))
		authentication.GET("/achievements/games/:game_id/mine", controllers.GetMyGameAchievements(db))
		authentication.POST("/achievements/:achievement_id/earn", controllers.EarnAchievement(db))

		// Friends
		authentication.GET("/friends", controllers.ListFriends(db))
		authentication.POST("/friends/requests/:user_id", controllers.SendFriendRequest(db, sio))
		authentication.GET("/friends/requests/incoming", controllers.GetIncomingRequests(db))
		authentication.GET("/friends/requests/outgoing", controllers.GetOutgoingRequests(db))
		authentication.POST("/friends/:friendship_id/accept", controllers.AcceptFriendRequest(db, sio))
		authentication.DELETE("/friends/requests/:friendship_id", controllers.RejectFriendRequest(db))
		authentication.DELETE("/friends/:friendship_id", controllers.RemoveFriendship(db))
		authentication.GET("/friends/status/:user_id", controllers.CheckFriendship(db))
		authentication.GET("/friends/mutual/:user_id", controllers.GetMutualFriends(db))

		admin := authentication.Group("/admin")
		admin.Use(middleware.AdminRequired(db))
		{
			admin.GET("/users", controllers.GetAllUsers(db))
			admin.DELETE("/users/:user_id", controllers.DeleteUser(db))
			admin.PATCH("/users/:user_id/role", controllers.ChangeUserRole(db))

			admin.POST("/games", controllers.CreateGame(db))
			admin.PUT("/games/:game_id", controllers.UpdateGame(db, redisClient))
			admin.DELETE("/games/:game_id", controllers.DeleteGame(db, redisClient))

			admin.POST("/achievements/games/:game_id", controllers.CreateAchievement(db))
			admin.PUT("/achievements/:achievement_id", controllers.UpdateAchievement(db))
			admin.DELETE("/achievements/:achievement_id", controllers.DeleteAchievement(db))
		}
	}
}
