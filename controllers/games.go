package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	models "GameHub/models/postgres"
	"GameHub/services/rawg"
	"GameHub/services/redis"
	redis_utils "GameHub/services/redis/utils"
	"GameHub/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// gamePayload is the JSON body for manual game creation and updates.
type gamePayload struct {
	ExternalAPIID *string  `json:"external_api_id"`
	Title         string   `json:"title"`
	Developer     string   `json:"developer"`
	ReleaseDate   string   `json:"release_date"`
	CoverImageURL string   `json:"cover_image_url"`
	Genres        []string `json:"genres"`
	Platforms     []string `json:"platforms"`
}

func gameDetail(db *gorm.DB, game *models.Game) gin.H {
	var genres []models.GameGenre
	var platforms []models.GamePlatform
	db.Where("game_id = ?", game.ID).Find(&genres)
	db.Where("game_id = ?", game.ID).Find(&platforms)

	genreNames := make([]string, 0, len(genres))
	for _, g := range genres {
		genreNames = append(genreNames, g.Genre)
	}
	platformNames := make([]string, 0, len(platforms))
	for _, p := range platforms {
		platformNames = append(platformNames, p.Platform)
	}

	return gin.H{
		"game_id":         game.ID,
		"external_api_id": game.ExternalAPIID,
		"title":           game.Title,
		"developer":       game.Developer,
		"release_date":    game.ReleaseDate,
		"cover_image_url": game.CoverImageURL,
		"metadata":        game.Metadata,
		"genres":          genreNames,
		"platforms":       platformNames,
	}
}

// invalidateRAWGCache drops the cached RAWG payload of an imported game
// once the stored row has diverged from it.
func invalidateRAWGCache(cache *redis.RedisClient, externalID *string) {
	if cache == nil || externalID == nil {
		return
	}
	rawgID, err := strconv.Atoi(*externalID)
	if err != nil {
		return
	}
	if err := cache.CleanupKeys([]string{redis_utils.FormatRAWGGameKey(rawgID)}); err != nil {
		log.Printf("RAWG cache invalidation failed: %v", err)
	}
}

// replaceTags swaps a game's genre and platform rows inside tx.
func replaceTags(tx *gorm.DB, gameID string, genres, platforms []string) error {
	if genres != nil {
		if err := tx.Where("game_id = ?", gameID).Delete(&models.GameGenre{}).Error; err != nil {
			return err
		}
		for _, genre := range genres {
			if err := tx.Create(&models.GameGenre{GameID: gameID, Genre: genre}).Error; err != nil {
				return err
			}
		}
	}
	if platforms != nil {
		if err := tx.Where("game_id = ?", gameID).Delete(&models.GamePlatform{}).Error; err != nil {
			return err
		}
		for _, platform := range platforms {
			if err := tx.Create(&models.GamePlatform{GameID: gameID, Platform: platform}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// @Summary Search RAWG
// @Description Searches the RAWG catalog; responses are cached in Redis
// @Tags games
// @Produce json
// @Param search query string true "Search text"
// @Param limit query int false "Max results (default 10)"
// @Success 200 {object} object{results=[]rawg.GameData}
// @Failure 400 {object} object{error=string}
// @Failure 502 {object} object{error=string}
// @Router /games/rawg/search [get]
func SearchRAWG(rawgSvc *rawg.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := strings.TrimSpace(c.Query("search"))
		if search == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Search text is required"})
			return
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit < 1 || limit > 50 {
			limit = 10
		}

		results, err := rawgSvc.SearchGames(search, limit)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "RAWG API error: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}

// @Summary Import a game from RAWG
// @Description Idempotent: if a game with the RAWG id already exists it is returned as-is
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param rawg_id path int true "RAWG game id"
// @Success 200 {object} object{game_id=string}
// @Success 201 {object} object{game_id=string}
// @Failure 404 {object} object{error=string}
// @Failure 502 {object} object{error=string}
// @Router /auth/games/rawg/{rawg_id}/import [post]
// @Security ApiKeyAuth
func ImportFromRAWG(db *gorm.DB, rawgSvc *rawg.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawgID, err := strconv.Atoi(c.Param("rawg_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rawg_id must be an integer"})
			return
		}

		// Already imported: return the stored row so clients can go
		// straight to adding it to their collection.
		externalID := strconv.Itoa(rawgID)
		var existing models.Game
		if err := db.Where("external_api_id = ?", externalID).First(&existing).Error; err == nil {
			c.JSON(http.StatusOK, gameDetail(db, &existing))
			return
		}

		data, err := rawgSvc.GetGameByID(rawgID)
		if err != nil {
			if errors.Is(err, rawg.ErrGameNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Game not found in RAWG"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "RAWG API error: " + err.Error()})
			return
		}

		metadata, _ := json.Marshal(gin.H{"rating": data.Rating, "metacritic": data.Metacritic})
		game := models.Game{
			ExternalAPIID: &data.ExternalAPIID,
			Title:         data.Title,
			Developer:     data.Developer,
			ReleaseDate:   data.ReleaseDate,
			CoverImageURL: data.CoverImageURL,
			Metadata:      datatypes.JSON(metadata),
		}

		// Game plus tags land in one transaction: a failed tag insert must
		// not leave a half-imported game behind.
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&game).Error; err != nil {
				return err
			}
			return replaceTags(tx, game.ID, data.Genres, data.Platforms)
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a concurrent import race; serve the winner's row.
				if err := db.Where("external_api_id = ?", externalID).First(&existing).Error; err == nil {
					c.JSON(http.StatusOK, gameDetail(db, &existing))
					return
				}
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error importing game"})
			return
		}

		c.JSON(http.StatusCreated, gameDetail(db, &game))
	}
}

// @Summary Create a game manually
// @Description Admin only
// @Tags games
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game body gamePayload true "Game data"
// @Success 201 {object} object{game_id=string}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/admin/games [post]
// @Security ApiKeyAuth
func CreateGame(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload gamePayload
		if err := c.ShouldBindJSON(&payload); err != nil || strings.TrimSpace(payload.Title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
			return
		}

		if payload.ExternalAPIID != nil {
			var existing models.Game
			if err := db.Where("external_api_id = ?", *payload.ExternalAPIID).First(&existing).Error; err == nil {
				c.JSON(http.StatusConflict, gin.H{"error": "Game with this external API ID already exists"})
				return
			}
		}

		game := models.Game{
			ExternalAPIID: payload.ExternalAPIID,
			Title:         payload.Title,
			Developer:     payload.Developer,
			CoverImageURL: payload.CoverImageURL,
		}
		if payload.ReleaseDate != "" {
			t, err := time.Parse("2006-01-02", payload.ReleaseDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "release_date must be YYYY-MM-DD"})
				return
			}
			game.ReleaseDate = &t
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&game).Error; err != nil {
				return err
			}
			return replaceTags(tx, game.ID, payload.Genres, payload.Platforms)
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Game with this external API ID already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating game"})
			return
		}
		c.JSON(http.StatusCreated, gameDetail(db, &game))
	}
}

// @Summary Browse the catalog
// @Description Search by title/developer, filter by genre or platform
// @Tags games
// @Produce json
// @Param search query string false "Search text"
// @Param genre query string false "Genre filter"
// @Param platform query string false "Platform filter"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (default 20)"
// @Success 200 {array} object{game_id=string,title=string}
// @Router /games [get]
func ListGames(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		skip, limit := utils.Pagination(c, 20)

		query := db.Model(&models.Game{})
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(title) LIKE ? OR LOWER(developer) LIKE ?", pattern, pattern)
		}
		if genre := c.Query("genre"); genre != "" {
			query = query.Joins("JOIN game_genres ON game_genres.game_id = games.id").
				Where("game_genres.genre = ?", genre)
		}
		if platform := c.Query("platform"); platform != "" {
			query = query.Joins("JOIN game_platforms ON game_platforms.game_id = games.id").
				Where("game_platforms.platform = ?", platform)
		}

		var games []models.Game
		if err := query.Offset(skip).Limit(limit).Find(&games).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching games"})
			return
		}

		details := make([]gin.H, 0, len(games))
		for i := range games {
			details = append(details, gameDetail(db, &games[i]))
		}
		c.JSON(http.StatusOK, details)
	}
}

// @Summary Get a game
// @Tags games
// @Produce json
// @Param game_id path string true "Game id"
// @Success 200 {object} object{game_id=string,title=string}
// @Failure 404 {object} object{error=string}
// @Router /games/{game_id} [get]
func GetGame(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		game, err := utils.FindGame(db, c.Param("game_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		c.JSON(http.StatusOK, gameDetail(db, game))
	}
}

// @Summary Update a game
// @Description Admin only. Genre and platform lists, when present, replace the stored tags.
// @Tags games
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Param game body gamePayload true "Fields to update"
// @Success 200 {object} object{game_id=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/admin/games/{game_id} [put]
// @Security ApiKeyAuth
func UpdateGame(db *gorm.DB, redisClient *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		game, err := utils.FindGame(db, c.Param("game_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}

		var payload gamePayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		if payload.Title != "" {
			game.Title = payload.Title
		}
		if payload.Developer != "" {
			game.Developer = payload.Developer
		}
		if payload.CoverImageURL != "" {
			game.CoverImageURL = payload.CoverImageURL
		}
		if payload.ExternalAPIID != nil {
			game.ExternalAPIID = payload.ExternalAPIID
		}
		if payload.ReleaseDate != "" {
			t, err := time.Parse("2006-01-02", payload.ReleaseDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "release_date must be YYYY-MM-DD"})
				return
			}
			game.ReleaseDate = &t
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(game).Error; err != nil {
				return err
			}
			return replaceTags(tx, game.ID, payload.Genres, payload.Platforms)
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Game with this external API ID already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating game"})
			return
		}
		invalidateRAWGCache(redisClient, game.ExternalAPIID)
		c.JSON(http.StatusOK, gameDetail(db, game))
	}
}

// @Summary Delete a game
// @Description Admin only. Cascades to genres, platforms, achievements, collection entries, reviews and sessions.
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Success 204
// @Failure 404 {object} object{error=string}
// @Router /auth/admin/games/{game_id} [delete]
// @Security ApiKeyAuth
func DeleteGame(db *gorm.DB, redisClient *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		game, err := utils.FindGame(db, c.Param("game_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		if err := db.Delete(game).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting game"})
			return
		}
		invalidateRAWGCache(redisClient, game.ExternalAPIID)
		c.Status(http.StatusNoContent)
	}
}

// @Summary Top rated games
// @Description Games whose average review rating beats the overall average across all reviews
// @Tags games
// @Produce json
// @Param limit query int false "Max results (default 10)"
// @Success 200 {array} object{game_id=string,title=string,average_rating=number}
// @Router /games/top-rated [get]
func TopRatedGames(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit < 1 {
			limit = 10
		}

		var total int64
		if err := db.Model(&models.Review{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching reviews"})
			return
		}
		if total == 0 {
			c.JSON(http.StatusOK, []gin.H{})
			return
		}

		type topRatedRow struct {
			models.Game
			AverageRating float64
		}
		var rows []topRatedRow
		// Scalar subquery: each game's average must beat the global one.
		err = db.Raw(`
			SELECT g.*, AVG(r.rating) AS average_rating
			FROM games g
			JOIN reviews r ON r.game_id = g.id
			GROUP BY g.id
			HAVING AVG(r.rating) > (SELECT AVG(rating) FROM reviews)
			ORDER BY AVG(r.rating) DESC
			LIMIT ?`, limit).Scan(&rows).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching top rated games"})
			return
		}

		details := make([]gin.H, 0, len(rows))
		for i := range rows {
			detail := gameDetail(db, &rows[i].Game)
			detail["average_rating"] = rows[i].AverageRating
			details = append(details, detail)
		}
		c.JSON(http.StatusOK, details)
	}
}

// @Summary Per-game statistics
// @Description Review count, distinct collectors, session count and average rating per game
// @Tags games
// @Produce json
// @Param min_reviews query int false "Minimum review count (default 1)"
// @Success 200 {array} object{game_id=string,title=string,review_count=integer,average_rating=number,user_count=integer,total_sessions=integer}
// @Router /games/statistics [get]
func GameStatistics(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		minReviews, err := strconv.Atoi(c.DefaultQuery("min_reviews", "1"))
		if err != nil || minReviews < 0 {
			minReviews = 1
		}

		type statsRow struct {
			GameID        string  `json:"game_id"`
			Title         string  `json:"title"`
			Developer     string  `json:"developer"`
			CoverImageURL string  `json:"cover_image_url"`
			ReviewCount   int     `json:"review_count"`
			AverageRating float64 `json:"average_rating"`
			UserCount     int     `json:"user_count"`
			TotalSessions int     `json:"total_sessions"`
		}
		var rows []statsRow
		// Aggregates live in the game_statistics view (config.MigrateDatabase).
		err = db.Raw(`
			SELECT game_id, title, developer, cover_image_url,
			       review_count, average_rating, user_count, total_sessions
			FROM game_statistics
			WHERE review_count >= ?
			ORDER BY average_rating DESC, review_count DESC`, minReviews).Scan(&rows).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching statistics"})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}
