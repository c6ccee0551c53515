// Package sql implements a keyinfo.Manager backed by gorm.io/gorm: one row
// per KeyTriple in a single table with a unique index over
// (application, provider, key_name).
package sql

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/parsec-io/parsec-core/internal/keyinfo"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

// keyRecord is the gorm model backing the key-info table.
type keyRecord struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Application string `gorm:"uniqueIndex:idx_triple;size:256"`
	Provider    uint8  `gorm:"uniqueIndex:idx_triple"`
	KeyName     string `gorm:"uniqueIndex:idx_triple;size:256"`
	KeyID       []byte
	Attributes  []byte
}

func (keyRecord) TableName() string { return "key_info" }

// Manager is the gorm-backed keyinfo.Manager.
type Manager struct {
	db *gorm.DB
	mu sync.Mutex
}

// Open prepares the key-info table against db and returns a ready Manager.
// The caller owns db's lifecycle (connection pooling, driver selection
// between glebarez/sqlite and postgres are internal/config concerns).
//
// Against Postgres (dsn non-empty and db's dialector reports "postgres"),
// schema setup runs through golang-migrate's versioned SQL migrations
// instead of gorm's AutoMigrate, so the Postgres schema stays reviewable
// independent of the gorm model. Any other dialect (the sqlite backend
// used in tests and single-node deployments) falls back to AutoMigrate,
// since golang-migrate's sqlite3 driver requires cgo and the
// glebarez/sqlite pure-Go driver this project otherwise depends on.
func Open(db *gorm.DB, dsn string) (*Manager, error) {
	if dsn != "" && db.Dialector.Name() == "postgres" {
		if err := runPostgresMigrations(dsn); err != nil {
			return nil, err
		}
	} else if err := db.AutoMigrate(&keyRecord{}); err != nil {
		return nil, err
	}
	return &Manager{db: db}, nil
}

func toRecord(triple keyinfo.KeyTriple, info keyinfo.KeyInfo) keyRecord {
	w := body.NewWriter()
	info.Attributes.Encode(w)
	return keyRecord{
		Application: triple.Application,
		Provider:    triple.Provider,
		KeyName:     triple.KeyName,
		KeyID:       info.KeyID,
		Attributes:  w.Bytes(),
	}
}

func fromRecord(rec keyRecord) (keyinfo.KeyTriple, keyinfo.KeyInfo, error) {
	triple := keyinfo.KeyTriple{Application: rec.Application, Provider: rec.Provider, KeyName: rec.KeyName}
	attrs, err := body.DecodeKeyAttributes(body.NewReader(rec.Attributes))
	if err != nil {
		return triple, keyinfo.KeyInfo{}, err
	}
	return triple, keyinfo.KeyInfo{KeyID: rec.KeyID, Attributes: attrs}, nil
}

func (m *Manager) Get(triple keyinfo.KeyTriple) (keyinfo.KeyInfo, bool, error) {
	var rec keyRecord
	err := m.db.Where("application = ? AND provider = ? AND key_name = ?",
		triple.Application, triple.Provider, triple.KeyName).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return keyinfo.KeyInfo{}, false, nil
	}
	if err != nil {
		return keyinfo.KeyInfo{}, false, err
	}
	_, info, err := fromRecord(rec)
	return info, err == nil, err
}

func (m *Manager) GetAll(provider uint8) (map[keyinfo.KeyTriple]keyinfo.KeyInfo, error) {
	var recs []keyRecord
	if err := m.db.Where("provider = ?", provider).Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make(map[keyinfo.KeyTriple]keyinfo.KeyInfo, len(recs))
	for _, rec := range recs {
		triple, info, err := fromRecord(rec)
		if err != nil {
			continue
		}
		out[triple] = info
	}
	return out, nil
}

func (m *Manager) Insert(triple keyinfo.KeyTriple, info keyinfo.KeyInfo) (keyinfo.KeyInfo, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := toRecord(triple, info)
	var prev keyinfo.KeyInfo
	var found bool
	err := m.db.Transaction(func(tx *gorm.DB) error {
		var existing keyRecord
		err := tx.Where("application = ? AND provider = ? AND key_name = ?",
			triple.Application, triple.Provider, triple.KeyName).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return err
		default:
			_, decoded, err := fromRecord(existing)
			if err != nil {
				return err
			}
			prev, found = decoded, true
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		}
		return tx.Create(&rec).Error
	})
	return prev, found, err
}

func (m *Manager) Remove(triple keyinfo.KeyTriple) (keyinfo.KeyInfo, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var prev keyinfo.KeyInfo
	var found bool
	err := m.db.Transaction(func(tx *gorm.DB) error {
		var existing keyRecord
		err := tx.Where("application = ? AND provider = ? AND key_name = ?",
			triple.Application, triple.Provider, triple.KeyName).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		_, decoded, err := fromRecord(existing)
		if err != nil {
			return err
		}
		prev, found = decoded, true
		return tx.Delete(&existing).Error
	})
	return prev, found, err
}

func (m *Manager) Exists(triple keyinfo.KeyTriple) (bool, error) {
	var count int64
	err := m.db.Model(&keyRecord{}).Where("application = ? AND provider = ? AND key_name = ?",
		triple.Application, triple.Provider, triple.KeyName).Count(&count).Error
	return count > 0, err
}

func (m *Manager) ListKeys(application string) ([]keyinfo.KeyTriple, error) {
	var recs []keyRecord
	if err := m.db.Where("application = ?", application).Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]keyinfo.KeyTriple, len(recs))
	for i, rec := range recs {
		out[i] = keyinfo.KeyTriple{Application: rec.Application, Provider: rec.Provider, KeyName: rec.KeyName}
	}
	return out, nil
}

func (m *Manager) ListClients() ([]string, error) {
	var apps []string
	err := m.db.Model(&keyRecord{}).Distinct("application").Pluck("application", &apps).Error
	return apps, err
}
