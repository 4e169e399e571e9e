package db

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EnsureAdmin creates the default privileged account if it does not exist.
// Idempotent; safe to run on every startup, fully decoupled from request
// handling.
func EnsureAdmin(db *gorm.DB, email, name, password string) error {
	var existing User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		// lost a concurrent bootstrap race; the row exists, which is all we need
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// SeedTestData resets the database and populates it with demo content.
//
// Behavior:
//  1. Clears all engagement, video and user tables.
//  2. Creates an admin uploader plus 10 demo viewers with hashed passwords.
//  3. Creates three public sample videos (one in contest mode, password "scales42").
//  4. Generates reactions (~70% likes), subscriptions and a few comments.
//
// Compatible with both MySQL and SQLite.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"contest_entries", "comments", "reactions", "subscriptions", "video_views", "videos", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE videos AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('videos', 'users', 'comments')")
	}

	log.Println("Cleared existing data")

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin := User{
		Email:        "korcze@korczetube.com",
		Name:         "Korcze",
		PasswordHash: string(adminHash),
		Role:         RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	// --- Demo viewers ---
	var viewers []User
	for i := 1; i <= 10; i++ {
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		u := User{
			Email:        fmt.Sprintf("user%d@example.com", i),
			Name:         fmt.Sprintf("user%d", i),
			PasswordHash: string(hash),
			Role:         RoleUser,
		}
		if err := db.Create(&u).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		viewers = append(viewers, u)
	}
	log.Println("Seeded admin + 10 users.")

	// --- Sample videos ---
	contestHash, err := bcrypt.GenerateFromPassword([]byte("scales42"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash contest password: %w", err)
	}
	videos := []Video{
		{
			Slug:         "big-buck-bunny",
			Title:        "Big Buck Bunny",
			Description:  "A large and lovable rabbit deals with three tiny bullies.",
			VideoURL:     "http://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
			ThumbnailURL: "https://upload.wikimedia.org/wikipedia/commons/c/c5/Big_buck_bunny_poster_big.jpg",
			Tags:         "animation,bunny,funny",
			IsPublic:     true,
			UploaderID:   admin.ID,
			Views:        1024,
		},
		{
			Slug:         "elephant-dream",
			Title:        "Elephant Dream",
			Description:  "The first open movie from Blender Foundation.",
			VideoURL:     "http://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4",
			ThumbnailURL: "https://upload.wikimedia.org/wikipedia/commons/0/0c/Elephants_Dream_poster.jpg",
			Tags:         "scifi,blender,movie",
			IsPublic:     true,
			UploaderID:   admin.ID,
			Views:        512,
		},
		{
			Slug:                "sintel",
			Title:               "Sintel",
			Description:         "A lonely young woman helps and befriends a dragon, whom she calls Scales.",
			VideoURL:            "http://commondatastorage.googleapis.com/gtv-videos-bucket/sample/Sintel.mp4",
			ThumbnailURL:        "https://upload.wikimedia.org/wikipedia/commons/8/8f/Sintel_poster.jpg",
			Tags:                "fantasy,blender,movie",
			IsPublic:            true,
			IsContestMode:       true,
			ContestPasswordHash: string(contestHash),
			UploaderID:          admin.ID,
			Views:               256,
		},
	}
	if err := db.Create(&videos).Error; err != nil {
		return fmt.Errorf("failed to seed videos: %w", err)
	}
	log.Println("Seeded 3 videos.")

	// --- Reactions, subscriptions, comments ---
	for _, u := range viewers {
		for _, v := range videos {
			if r.Intn(100) >= 60 {
				continue
			}
			kind := ReactionLike
			if r.Intn(100) >= 70 {
				kind = ReactionDislike
			}
			reaction := Reaction{UserID: u.ID, VideoID: v.ID, Kind: kind}
			if err := db.Create(&reaction).Error; err != nil {
				return fmt.Errorf("failed to seed reaction: %w", err)
			}
		}
		if r.Intn(100) < 50 {
			sub := Subscription{SubscriberID: u.ID, ChannelID: admin.ID}
			if err := db.Create(&sub).Error; err != nil {
				return fmt.Errorf("failed to seed subscription: %w", err)
			}
		}
	}

	comments := []Comment{
		{VideoID: videos[0].ID, UserID: viewers[0].ID, Content: "Still the best open movie."},
		{VideoID: videos[0].ID, UserID: viewers[1].ID, Content: "That squirrel had it coming."},
		{VideoID: videos[2].ID, UserID: viewers[2].ID, Content: "Scales deserved better."},
	}
	if err := db.Create(&comments).Error; err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}

	return nil
}
