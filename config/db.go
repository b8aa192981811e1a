package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ninjapark-backend/models"
)

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

// resolveDSN picks MYSQL_URL / DATABASE_URL first and falls back to DB_* parts.
func resolveDSN(cfg *AppConfig) (string, error) {
	raw := strings.TrimSpace(cfg.DatabaseURL)
	if cfg.DBDriver == "mysql" && strings.TrimSpace(cfg.MySQLURL) != "" {
		raw = strings.TrimSpace(cfg.MySQLURL)
	}

	switch cfg.DBDriver {
	case "mysql":
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		if raw != "" {
			return raw, nil
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName), nil
	case "postgres":
		if raw != "" {
			return raw, nil
		}
		port := cfg.DBPort
		if port == "" || port == "3306" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost, port, cfg.DBUser, cfg.DBPass, cfg.DBName), nil
	case "sqlite":
		if raw != "" {
			return strings.TrimPrefix(raw, "file:"), nil
		}
		return cfg.DBName + ".db", nil
	}
	return "", fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

func dialector(driver, dsn string) gorm.Dialector {
	switch driver {
	case "postgres":
		return postgres.Open(dsn)
	case "sqlite":
		return sqlite.Open(dsn)
	default:
		return mysql.Open(dsn)
	}
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// ConnectDatabase opens the configured database and migrates the schema.
func ConnectDatabase(cfg *AppConfig, log *slog.Logger) (*gorm.DB, error) {
	dsn, err := resolveDSN(cfg)
	if err != nil {
		return nil, err
	}

	sqlLog := gormlogger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelInfo),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(cfg.DBLogLevel),
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(dialector(cfg.DBDriver, dsn), &gorm.Config{
		Logger:         sqlLog,
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.DBDriver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}
	if cfg.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info("database ready", "driver", cfg.DBDriver)
	return db, nil
}

// Migrate creates or updates every table, parents before children.
func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(
		&models.Role{},
		&models.RolePermission{},
		&models.AdminUser{},
		&models.RefreshToken{},
		&models.GlobalSettings{},
		&models.Customer{},
		&models.Voucher{},
		&models.Booking{},
		&models.Waiver{},
		&models.BookingBlock{},
		&models.ContactMessage{},
		&models.AuditLog{},
		&models.Activity{},
		&models.Banner{},
		&models.Faq{},
		&models.Testimonial{},
		&models.StaticPage{},
		&models.SocialLink{},
		&models.InvitationTemplate{},
		&models.GalleryItem{},
		&models.PricingPlan{},
	), "migrate schema")
}
