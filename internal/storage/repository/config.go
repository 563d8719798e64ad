package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/storage"
)

// GetAppConfig читает сохранённый документ конфигурации.
// Если документа ещё нет, возвращает storage.ErrNotFound.
func (s *Storage) GetAppConfig(ctx context.Context) (*models.AppConfig, error) {
	const op = "storage.GetAppConfig"

	var doc []byte
	err := s.DB.QueryRowContext(ctx, `SELECT document FROM app_config WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cfg := models.DefaultAppConfig()
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MergeAppConfig сливает patch (JSON-объект) с сохранённым документом на стороне
// PostgreSQL и возвращает результат. Если документа нет, patch записывается поверх base.
func (s *Storage) MergeAppConfig(ctx context.Context, base models.AppConfig, patch []byte) (*models.AppConfig, error) {
	const op = "storage.MergeAppConfig"

	baseDoc, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var doc []byte
	err = s.DB.QueryRowContext(ctx,
		`INSERT INTO app_config (id, document) VALUES (1, $1::jsonb || $2::jsonb)
		 ON CONFLICT (id) DO UPDATE
		 SET document = app_config.document || $2::jsonb, updated_at = NOW()
		 RETURNING document`, string(baseDoc), string(patch)).Scan(&doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cfg := models.DefaultAppConfig()
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}
