// file: internals/databases/database.go
package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tubuzu/learn-together-backend/internals/configs"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")

	sslmode := configs.GetEnv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=learntogether&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 plays nice with PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
		// unique violations become gorm.ErrDuplicatedKey so services can
		// map them to 409 without driver-specific error checks
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	// fire a light ping so the pool is filled and ready
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
