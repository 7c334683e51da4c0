package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vortex/internal/logger"
)

// entryModel is the persisted shape of an Entry. The full OrderResult is kept
// as a JSON column next to the indexed fields used for querying.
type entryModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement"`
	EntryID   string         `gorm:"column:entry_id;size:64;uniqueIndex"`
	Symbol    string         `gorm:"size:32;index"`
	Side      string         `gorm:"size:8"`
	Status    string         `gorm:"size:16;index"`
	Signal    string         `gorm:"size:16"`
	Notional  float64        `gorm:"column:notional"`
	Equity    float64        `gorm:"column:equity"`
	Clamp     float64        `gorm:"column:applied_clamp"`
	Result    datatypes.JSON `gorm:"column:result"`
	CreatedAt time.Time      `gorm:"column:created_at;index"`
}

func (entryModel) TableName() string { return "ledger_entries" }

// SQLiteArchiver persists ledger entries in append order. Failures are logged
// and swallowed: losing archive rows must never block order flow.
type SQLiteArchiver struct {
	db *gorm.DB
}

func NewSQLiteArchiver(path string) (*SQLiteArchiver, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("archive path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&entryModel{}); err != nil {
		return nil, err
	}
	return &SQLiteArchiver{db: db}, nil
}

func (a *SQLiteArchiver) Offer(e Entry) {
	raw, err := json.Marshal(e.Result)
	if err != nil {
		logger.Warnf("ledger archive: marshal result failed: %v", err)
		return
	}
	row := entryModel{
		EntryID:   e.ID,
		Symbol:    e.Result.Symbol,
		Side:      string(e.Result.Side),
		Status:    string(e.Result.Status),
		Signal:    string(e.Signal),
		Notional:  e.Result.Amount * e.Result.Price,
		Equity:    e.Equity,
		Clamp:     e.AppliedClamp,
		Result:    datatypes.JSON(raw),
		CreatedAt: e.Time,
	}
	if err := a.db.Create(&row).Error; err != nil {
		logger.Warnf("ledger archive: insert failed: %v", err)
	}
}

func (a *SQLiteArchiver) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
