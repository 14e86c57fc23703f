package storage

import (
	"encoding/json"
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/traindesk/api-crm/internal/models"
)

// Blob is one persisted key/value row. The snapshot document goes into a
// jsonb column via the gorm JSON serializer.
type Blob struct {
	Key   string          `gorm:"primaryKey;size:64" json:"key"`
	Value json.RawMessage `gorm:"type:jsonb;serializer:json" json:"value"`
}

// PostgresAdapter stores the blobs in a Postgres table through gorm.
type PostgresAdapter struct {
	db *gorm.DB
}

// NewPostgresAdapter connects with the given DSN and migrates the blob
// table.
func NewPostgresAdapter(dsn string) (*PostgresAdapter, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Blob{}); err != nil {
		return nil, err
	}
	return &PostgresAdapter{db: db}, nil
}

func (p *PostgresAdapter) load(key string) (json.RawMessage, bool, error) {
	var b Blob
	err := p.db.First(&b, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b.Value, true, nil
}

func (p *PostgresAdapter) save(key string, value json.RawMessage) error {
	b := Blob{Key: key, Value: value}
	return p.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&b).Error
}

// LoadState reads the snapshot row, defaulting to an empty snapshot when
// the row does not exist yet.
func (p *PostgresAdapter) LoadState() (models.State, error) {
	raw, ok, err := p.load(StateKey)
	if err != nil {
		return models.State{}, err
	}
	if !ok {
		return models.NewState(), nil
	}
	var s models.State
	if err := json.Unmarshal(raw, &s); err != nil {
		return models.State{}, err
	}
	s.Normalize()
	return s, nil
}

// SaveState upserts the whole snapshot under the state key.
func (p *PostgresAdapter) SaveState(s models.State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return p.save(StateKey, raw)
}

// LoadTheme returns the persisted theme, defaulting to "light".
func (p *PostgresAdapter) LoadTheme() (string, error) {
	raw, ok, err := p.load(ThemeKey)
	if err != nil {
		return "", err
	}
	if !ok {
		return "light", nil
	}
	var theme string
	if err := json.Unmarshal(raw, &theme); err != nil {
		return "", err
	}
	return theme, nil
}

// SaveTheme upserts the theme string.
func (p *PostgresAdapter) SaveTheme(theme string) error {
	raw, err := json.Marshal(theme)
	if err != nil {
		return err
	}
	return p.save(ThemeKey, raw)
}
