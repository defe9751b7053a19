package initializers

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

// dbLocation is the zone M-Pesa transaction times are parsed in. The MySQL
// driver must use the same zone or stored DATETIMEs shift by three hours.
const dbLocation = "Africa/Nairobi"

// CheckDSNLocation requires a MySQL DSN to carry loc=Africa%2FNairobi.
func CheckDSNLocation(dsn string) error {
	_, query, _ := strings.Cut(dsn, "?")
	params, err := url.ParseQuery(query)
	if err != nil {
		return fmt.Errorf("parse DB_DSN parameters: %w", err)
	}
	if loc := params.Get("loc"); loc != dbLocation {
		return fmt.Errorf("DB_DSN must set loc=%s, got %q", url.QueryEscape(dbLocation), loc)
	}
	return nil
}

func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		if err := CheckDSNLocation(dsn); err != nil {
			return nil, err
		}
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func ConnectToDB(cfg Config) {
	db, err := OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	DB = db
	log.Println("Connected to the database.")
}
