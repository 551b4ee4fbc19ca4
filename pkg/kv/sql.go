package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/fusionwear/storefront/pkg/db"
	"github.com/fusionwear/storefront/pkg/db/models"
	"gorm.io/gorm/clause"
)

// SQL persists values in the storefront_state table.
type SQL struct {
	client *db.Client
	scope  string
}

func NewSQL(client *db.Client, scope string) *SQL {
	return &SQL{client: client, scope: scope}
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var rec models.StateRecord
	err := s.client.DB().WithContext(ctx).
		Where("scope = ? AND \"key\" = ?", s.scope, key).
		Take(&rec).Error
	if db.IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load state %q: %w", key, err)
	}
	return rec.Value, true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	rec := models.StateRecord{Scope: s.scope, Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.client.DB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save state %q: %w", key, err)
	}
	return nil
}
