package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwpark-dev/tripnote/internal/models"
)

func TestOpenSQLiteInMemoryAndMigrate(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	require.True(t, db.Migrator().HasTable(&models.Account{}))
	require.True(t, db.Migrator().HasTable(&models.VerificationCode{}))
	require.True(t, db.Migrator().HasTable(&models.TravelChapter{}))
	require.True(t, db.Migrator().HasTable(&models.DiaryEntry{}))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
}

func TestBuildPostgresDSN(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{User: "trip", Name: "tripnote", Host: "db", Port: 5433, Password: "pw"})
	require.NoError(t, err)
	require.Contains(t, dsn, "host=db")
	require.Contains(t, dsn, "port=5433")
	require.Contains(t, dsn, "dbname=tripnote")

	_, err = buildPostgresDSN(Config{})
	require.Error(t, err)
}

func TestBuildMySQLDSN(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{User: "trip", Password: "pw", Name: "tripnote"})
	require.NoError(t, err)
	require.Contains(t, dsn, "trip:pw@tcp(localhost:3306)/tripnote")

	_, err = buildMySQLDSN(Config{User: "trip"})
	require.Error(t, err)
}
