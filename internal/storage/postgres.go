package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mrwasif-dev/telegram-subs-bot/internal/models"
)

// PostgresSource хранит снимок одной jsonb-строкой в PostgreSQL.
// Продакшен-вариант порта персистентности для развёртываний, где
// локальный файл неудобен.
type PostgresSource struct {
	DB *sql.DB
}

// NewPostgresSource открывает подключение к PostgreSQL и проверяет его.
func NewPostgresSource(dsn string) (*PostgresSource, error) {
	const op = "storage.NewPostgresSource"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &PostgresSource{DB: db}, nil
}

// Load читает единственную строку снимка.
func (p *PostgresSource) Load() (*models.Snapshot, bool, error) {
	const op = "storage.PostgresSource.Load"

	var data []byte
	err := p.DB.QueryRow(`SELECT data FROM snapshots WHERE id = 1`).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &snap, true, nil
}

// Save перезаписывает строку снимка целиком.
func (p *PostgresSource) Save(snap *models.Snapshot) error {
	const op = "storage.PostgresSource.Save"

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = p.DB.Exec(`INSERT INTO snapshots (id, data, updated_at) VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`, data)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает подключение к базе.
func (p *PostgresSource) Close() error {
	return p.DB.Close()
}
