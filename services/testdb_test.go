package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ninjapark-backend/config"
	"ninjapark-backend/utils"
)

// newTestDB opens a migrated in-memory database. One connection keeps every
// query on the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock(day string) func() time.Time {
	ts, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return ts.Add(10 * time.Hour) }
}

// recordingMailer keeps every message instead of sending it.
type recordingMailer struct {
	sent []sentMail
}

type sentMail struct {
	To, Subject string
}

func (m *recordingMailer) Send(to, subject, plain, html string) error {
	m.sent = append(m.sent, sentMail{To: to, Subject: subject})
	return nil
}

func ptr[T any](v T) *T { return &v }

func defaultPage() utils.PageParams {
	return utils.PageParams{Page: utils.DefaultPage, Limit: utils.DefaultLimit}
}
