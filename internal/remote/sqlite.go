package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// document is the storage row backing one remote record. The field map is
// kept as JSON so every collection shares a single table.
type document struct {
	Collection string `gorm:"primaryKey;size:64"`
	ID         string `gorm:"primaryKey;size:40"`
	OwnerID    string `gorm:"index"`
	Fields     string
}

func (document) TableName() string { return "documents" }

// Open opens the SQLite database backing the document store and runs
// migrations.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "spasta.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(&document{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	return db, nil
}

// ensureDirForSQLite creates the parent dir for a SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

// SQLiteGateway implements Gateway on the documents table. Ids are
// time-sortable UUIDv7, so owner queries come back in insertion order.
type SQLiteGateway struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQLiteGateway(db *gorm.DB) *SQLiteGateway {
	return &SQLiteGateway{db: db, now: time.Now}
}

// SetClock overrides the server clock used to resolve ServerTime markers.
func (g *SQLiteGateway) SetClock(now func() time.Time) {
	g.now = now
}

func (g *SQLiteGateway) QueryByOwner(ctx context.Context, collection, ownerID string) ([]Record, error) {
	var docs []document
	if err := g.db.WithContext(ctx).
		Where("collection = ? AND owner_id = ?", collection, ownerID).
		Order("id ASC").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	return decodeDocuments(docs)
}

func (g *SQLiteGateway) QueryByOwnerAndField(ctx context.Context, collection, ownerID, field string, value any) ([]Record, error) {
	var docs []document
	if err := g.db.WithContext(ctx).
		Where("collection = ? AND owner_id = ? AND json_extract(fields, ?) = ?",
			collection, ownerID, "$."+field, value).
		Order("id ASC").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("query %s by %s: %w", collection, field, err)
	}
	return decodeDocuments(docs)
}

func (g *SQLiteGateway) GetByID(ctx context.Context, collection, id string) (Record, error) {
	var doc document
	err := g.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&doc).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		return Record{}, ErrNoDocument
	case err != nil:
		return Record{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return decodeDocument(doc)
}

func (g *SQLiteGateway) Insert(ctx context.Context, collection string, fields Fields) (string, error) {
	id := uuid.Must(uuid.NewV7()).String()
	owner, _ := fields["userId"].(string)

	raw, err := json.Marshal(g.resolve(fields))
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", collection, err)
	}

	doc := document{Collection: collection, ID: id, OwnerID: owner, Fields: string(raw)}
	if err := g.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return "", fmt.Errorf("insert %s: %w", collection, err)
	}
	return id, nil
}

func (g *SQLiteGateway) Update(ctx context.Context, collection, id string, fields Fields) error {
	var doc document
	err := g.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&doc).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		return ErrNoDocument
	case err != nil:
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	existing := Fields{}
	if err := json.Unmarshal([]byte(doc.Fields), &existing); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	for k, v := range g.resolve(fields) {
		existing[k] = v
	}

	raw, err := json.Marshal(existing)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	doc.Fields = string(raw)
	if err := g.db.WithContext(ctx).Save(&doc).Error; err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (g *SQLiteGateway) Delete(ctx context.Context, collection, id string) error {
	if err := g.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&document{}).Error; err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// BatchDelete removes the id set in one transaction: either every listed
// document is gone or none is.
func (g *SQLiteGateway) BatchDelete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("collection = ? AND id IN ?", collection, ids).
			Delete(&document{}).Error
	})
	if err != nil {
		return fmt.Errorf("batch delete %s: %w", collection, err)
	}
	return nil
}

// resolve replaces ServerTime markers and raw time values with the
// persisted pair encoding. Markers only appear at the top level of a field
// map.
func (g *SQLiteGateway) resolve(fields Fields) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		switch tv := v.(type) {
		case serverStamp:
			out[k] = FromTime(g.now())
		case time.Time:
			out[k] = FromTime(tv)
		case *time.Time:
			if tv == nil {
				out[k] = nil
			} else {
				out[k] = FromTime(*tv)
			}
		default:
			out[k] = v
		}
	}
	return out
}

func decodeDocuments(docs []document) ([]Record, error) {
	recs := make([]Record, 0, len(docs))
	for _, doc := range docs {
		rec, err := decodeDocument(doc)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func decodeDocument(doc document) (Record, error) {
	fields := Fields{}
	if err := json.Unmarshal([]byte(doc.Fields), &fields); err != nil {
		return Record{}, fmt.Errorf("decode %s/%s: %w", doc.Collection, doc.ID, err)
	}
	return Record{ID: doc.ID, OwnerID: doc.OwnerID, Fields: fields}, nil
}
