package database

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/storeops/rollout-tracker/internal/config"
	"github.com/storeops/rollout-tracker/internal/models"
)

var DB *gorm.DB

// Connect opens the database selected by cfg.DBDriver. Unique-constraint
// violations are translated to gorm.ErrDuplicatedKey so callers can map
// them to conflicts.
func Connect(cfg *config.Config) error {
	gormCfg := &gorm.Config{TranslateError: true}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		db, err = gorm.Open(mysql.Open(dsn), gormCfg)
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = db
	return nil
}

// Migrate creates or updates the schema for every model.
func Migrate() error {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Project{},
		&models.ProjectUser{},
		&models.ProjectDocument{},
		&models.Task{},
		&models.Comment{},
		&models.MediaFile{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// EnsureDefaultAdmin creates an Admin account if no Admin-class user
// exists. Every authorization path assumes at least one such account is
// present by the time requests arrive.
func EnsureDefaultAdmin(cfg *config.Config) error {
	var count int64
	err := DB.Model(&models.User{}).
		Where("role IN ?", []models.Role{models.RoleAdmin, models.RoleSuperAdmin}).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(cfg.DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	admin := &models.User{
		Email:          cfg.DefaultAdminEmail,
		PasswordDigest: string(digest),
		Role:           models.RoleAdmin,
	}
	if err := DB.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
