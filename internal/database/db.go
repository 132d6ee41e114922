package database

import (
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/prodpush/prodpush/internal/models"
)

// Init opens the SQLite database at dbPath and migrates the ProdPush
// schema. Foreign keys are switched on so task/note rows cannot
// reference a missing project.
func Init(dbPath string) *gorm.DB {
	dbFile := sqlite.Open(dbPath + "?_foreign_keys=on")
	db, err := gorm.Open(dbFile, &gorm.Config{})
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := Migrate(db); err != nil {
		zap.L().Fatal("Failed to migrate database", zap.Error(err))
	}

	zap.L().Info("Database initialised and migrated successfully")

	return db
}

// Migrate creates or updates the users, projects, tasks, notes and
// project_members tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.Note{},
		&models.ProjectMember{},
	)
}
