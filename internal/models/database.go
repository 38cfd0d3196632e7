package models

import (
	"fmt"

	"github.com/Adeel3330/agile-next-sub002/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the configured database and stores it in DB.
func InitDB(cfg *config.DatabaseConfig, debug bool) error {
	db, err := Open(cfg, debug)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open connects without touching the package-level handle, so tests can hold
// isolated databases.
func Open(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Admin{},
		&RefreshToken{},
		&Setting{},
		&Page{},
		&PageVersion{},
		&Blog{},
		&Service{},
		&Career{},
		&TeamMember{},
		&Slider{},
		&Media{},
		&Contact{},
		&Booking{},
		&Resume{},
		&Affiliate{},
		&AffiliateApplication{},
		&Lead{},
		&Payout{},
		&SystemLog{},
		&SchedulerLock{},
	); err != nil {
		return err
	}
	return EnsureIndexes(db)
}

// liveUniqueIndexes are unique among rows that are not soft-deleted, so a
// deleted row's slug or email can be reused.
var liveUniqueIndexes = []struct {
	name    string
	table   string
	columns string
}{
	{"uniq_pages_slug_live", "pages", "slug"},
	{"uniq_blogs_slug_live", "blogs", "slug"},
	{"uniq_services_slug_live", "services", "slug"},
	{"uniq_careers_slug_live", "careers", "slug"},
	{"uniq_contacts_email_live", "contacts", "email"},
	{"uniq_affiliates_email_live", "affiliates", "email"},
	{"uniq_affiliates_code_live", "affiliates", "code"},
}

// EnsureIndexes creates the partial unique indexes. MySQL has no partial
// indexes; there the services' pre-checks are the only guard.
func EnsureIndexes(db *gorm.DB) error {
	switch db.Dialector.Name() {
	case "sqlite", "postgres":
	default:
		return nil
	}
	for _, idx := range liveUniqueIndexes {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s) WHERE deleted_at IS NULL",
			idx.name, idx.table, idx.columns)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
