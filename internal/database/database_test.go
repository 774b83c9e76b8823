package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsa/internal/config"
)

func archiveDB() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:               "db",
		Port:               "5432",
		User:               "gsa",
		Password:           "s3cret",
		Name:               "gsa",
		SSLMode:            "disable",
		MaxOpenConns:       10,
		MaxIdleConns:       5,
		ConnMaxLifetimeSec: 300,
	}
}

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.DatabaseConfig)
		want    string
		missing string
	}{
		{
			name: "full config",
			want: "postgres://gsa:s3cret@db:5432/gsa?application_name=gsa&sslmode=disable",
		},
		{
			name:   "no password",
			mutate: func(c *config.DatabaseConfig) { c.Password = "" },
			want:   "postgres://gsa@db:5432/gsa?application_name=gsa&sslmode=disable",
		},
		{
			name:   "password is escaped",
			mutate: func(c *config.DatabaseConfig) { c.Password = "p@ss/word" },
			want:   "postgres://gsa:p%40ss%2Fword@db:5432/gsa?application_name=gsa&sslmode=disable",
		},
		{
			name:   "no sslmode",
			mutate: func(c *config.DatabaseConfig) { c.SSLMode = "" },
			want:   "postgres://gsa:s3cret@db:5432/gsa?application_name=gsa",
		},
		{
			name:    "missing host",
			mutate:  func(c *config.DatabaseConfig) { c.Host = " " },
			missing: "DB_HOST",
		},
		{
			name:    "missing user and name",
			mutate:  func(c *config.DatabaseConfig) { c.User, c.Name = "", "" },
			missing: "DB_USER, DB_NAME",
		},
		{
			name:    "empty config",
			mutate:  func(c *config.DatabaseConfig) { *c = config.DatabaseConfig{} },
			missing: "DB_HOST, DB_PORT, DB_USER, DB_NAME",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := archiveDB()
			if tt.mutate != nil {
				tt.mutate(&c)
			}
			got, err := BuildPostgresDSN(c)
			if tt.missing != "" {
				require.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.missing)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// stubOpen makes NewPostgres open db and records the DSN it was given.
func stubOpen(t *testing.T, db *sql.DB, err error) *string {
	t.Helper()
	var dsn string
	orig := sqlOpen
	sqlOpen = func(_, dataSourceName string) (*sql.DB, error) {
		dsn = dataSourceName
		return db, err
	}
	t.Cleanup(func() { sqlOpen = orig })
	return &dsn
}

func TestNewPostgres(t *testing.T) {
	t.Run("opens and pings", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		dsn := stubOpen(t, db, nil)
		mock.ExpectPing()

		got, err := NewPostgres(context.Background(), archiveDB())
		require.NoError(t, err)
		assert.Same(t, db, got)
		assert.Contains(t, *dsn, "application_name=gsa")
		assert.Equal(t, 10, got.Stats().MaxOpenConnections)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("open error", func(t *testing.T) {
		stubOpen(t, nil, errors.New("driver missing"))

		got, err := NewPostgres(context.Background(), archiveDB())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sql open: driver missing")
		assert.Nil(t, got)
	})

	t.Run("ping error closes the pool", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		stubOpen(t, db, nil)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		mock.ExpectClose()

		got, err := NewPostgres(context.Background(), archiveDB())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db ping: connection refused")
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("canceled context", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		stubOpen(t, db, nil)
		mock.ExpectPing()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		got, err := NewPostgres(ctx, archiveDB())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, got)
	})

	t.Run("invalid config", func(t *testing.T) {
		got, err := NewPostgres(context.Background(), config.DatabaseConfig{})
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Nil(t, got)
	})
}
