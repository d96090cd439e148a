package config

import (
	"GameHub/models/postgres"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectGORM returns a GORM DB instance connected to PostgreSQL
func ConnectGORM() (*gorm.DB, error) {
	user := os.Getenv("POSTGRES_USER")
	password := os.Getenv("POSTGRES_PASSWORD")
	host := os.Getenv("POSTGRES_HOST")
	port := os.Getenv("POSTGRES_PORT")
	database := os.Getenv("POSTGRES_DATABASE")
	verbose := os.Getenv("VERBOSE_POSTGRES")

	dsn := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		user, password, host, port, database)

	sqlDB1, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Printf("Error connecting to PostgreSQL: %v", err)
		return nil, err
	}

	// TranslateError turns unique-constraint violations into
	// gorm.ErrDuplicatedKey so controllers can answer 409 instead of 500.
	gormConfig := &gorm.Config{TranslateError: true}
	if verbose == "true" {
		newLogger := logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Info,
				IgnoreRecordNotFoundError: false,
				Colorful:                  true,
			},
		)
		gormConfig.Logger = newLogger
	}

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB1,
		PreferSimpleProtocol: true,
	}), gormConfig)
	if err != nil {
		log.Printf("Error connecting to PostgreSQL with GORM: %v", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying SQL DB: %v", err)
		return nil, err
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		log.Printf("Error pinging PostgreSQL: %v", err)
		return nil, err
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL with GORM")
	return db, nil
}

// MigrateDatabase migrates the GORM models to the PostgreSQL database and
// installs the pieces AutoMigrate cannot express: the review-rating
// trigger and the game_statistics view.
func MigrateDatabase(db *gorm.DB) error {
	err := db.AutoMigrate(
		postgres.User{},
		postgres.Game{},
		postgres.GameGenre{},
		postgres.GamePlatform{},
		postgres.Achievement{},
		postgres.UserGame{},
		postgres.UserAchievement{},
		postgres.Review{},
		postgres.PlaySession{},
		postgres.Friendship{})
	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	// Trigger rejecting out-of-range review ratings before they hit the
	// table. The same rule lives in the Review BeforeSave hook; the trigger
	// is the backstop for writes that bypass GORM.
	if err := db.Exec(`
		CREATE OR REPLACE FUNCTION check_review_rating() RETURNS trigger AS $$
		BEGIN
			IF NEW.rating < 1 OR NEW.rating > 5 THEN
				RAISE EXCEPTION 'review rating must be between 1 and 5, got %', NEW.rating;
			END IF;
			RETURN NEW;
		END;
		$$ LANGUAGE plpgsql;
	`).Error; err != nil {
		return fmt.Errorf("creating rating trigger function: %w", err)
	}
	if err := db.Exec(`
		DROP TRIGGER IF EXISTS review_rating_check ON reviews;
		CREATE TRIGGER review_rating_check
			BEFORE INSERT OR UPDATE ON reviews
			FOR EACH ROW EXECUTE FUNCTION check_review_rating();
	`).Error; err != nil {
		return fmt.Errorf("creating rating trigger: %w", err)
	}

	// Per-game aggregates used by the statistics endpoint.
	if err := db.Exec(`
		CREATE OR REPLACE VIEW game_statistics AS
		SELECT g.id AS game_id,
		       g.title,
		       g.developer,
		       g.cover_image_url,
		       COUNT(DISTINCT r.id)  AS review_count,
		       COALESCE(AVG(r.rating), 0) AS average_rating,
		       COUNT(DISTINCT ug.user_id) AS user_count,
		       COUNT(DISTINCT ps.id) AS total_sessions
		FROM games g
		LEFT JOIN reviews r ON r.game_id = g.id
		LEFT JOIN user_games ug ON ug.game_id = g.id
		LEFT JOIN play_sessions ps ON ps.game_id = g.id
		GROUP BY g.id, g.title, g.developer, g.cover_image_url;
	`).Error; err != nil {
		return fmt.Errorf("creating game_statistics view: %w", err)
	}

	log.Println("PostgreSQL database migrated successfully")
	return nil
}
