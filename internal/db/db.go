package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/korcze/korczetube/internal/config"
)

// Models returns every persisted model, in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{}, &Video{}, &VideoView{}, &Reaction{}, &Subscription{}, &ContestEntry{}, &Comment{},
	}
}

// NewDB initializes the database connection using DSN from config.
//
// TranslateError is on so duplicate-key violations surface as
// gorm.ErrDuplicatedKey; the repositories fold those races into the same
// conflict outcome a sequential existence check would have produced.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DB.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	// AutoMigrate ensures schema is in sync with models.
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}
