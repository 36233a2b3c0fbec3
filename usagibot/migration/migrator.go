package migration

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/uptrace/bun"
	"github.com/usagipet/usagibot/usagibot/database/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const defaultBatchSize = 500

// LegacyProfile mirrors one document of the previous bot's document store
// (the "rabbit_gamers" collection).
type LegacyProfile struct {
	UserID        string    `bson:"user_id"`
	CarrotCount   int64     `bson:"carrot_count"`
	CurrentStreak int       `bson:"current_streak"`
	LastLogin     *string   `bson:"last_login"`
	Items         []string  `bson:"items"`
	CurrentLook   string    `bson:"current_look"`
	CreatedAt     time.Time `bson:"created_at"`
}

// Migrator performs the one-shot import of legacy profiles into Postgres.
// It can read either a live Mongo collection or a mongodump .bson file.
type Migrator struct {
	pgDB      *bun.DB
	mongoDB   *mongo.Database
	collName  string
	batchSize int

	imported int
	skipped  int
}

func NewMigrator(pgDB *bun.DB) *Migrator {
	return &Migrator{
		pgDB:      pgDB,
		collName:  "rabbit_gamers",
		batchSize: defaultBatchSize,
	}
}

func (m *Migrator) UseMongo(client *mongo.Client, dbName string) {
	if client != nil && dbName != "" {
		m.mongoDB = client.Database(dbName)
	}
}

func (m *Migrator) SetCollectionName(name string) {
	if name != "" {
		m.collName = name
	}
}

// MigrateFromMongo streams every legacy document from the live collection
// into Postgres. Existing user_ids are left untouched so the import is
// safe to re-run.
func (m *Migrator) MigrateFromMongo(ctx context.Context) error {
	if m.mongoDB == nil {
		return fmt.Errorf("mongoDB not configured; call UseMongo first")
	}

	start := time.Now()
	cursor, err := m.mongoDB.Collection(m.collName).Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to query legacy collection: %w", err)
	}
	defer cursor.Close(ctx)

	batch := make([]*models.Profile, 0, m.batchSize)
	for cursor.Next(ctx) {
		var legacy LegacyProfile
		if err := cursor.Decode(&legacy); err != nil {
			slog.Warn("Skipping undecodable legacy document",
				slog.String("type", "db"),
				slog.Any("error", err))
			m.skipped++
			continue
		}

		profile, ok := m.convert(legacy)
		if !ok {
			m.skipped++
			continue
		}
		batch = append(batch, profile)

		if len(batch) >= m.batchSize {
			if err := m.flush(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("legacy cursor failed: %w", err)
	}
	if err := m.flush(ctx, batch); err != nil {
		return err
	}

	slog.Info("Legacy import completed",
		slog.String("type", "db"),
		slog.String("source", "mongo"),
		slog.Int("imported", m.imported),
		slog.Int("skipped", m.skipped),
		slog.Duration("took", time.Since(start)))
	return nil
}

// MigrateFromDump reads a mongodump .bson file (length-prefixed BSON
// documents back to back) and imports it the same way.
func (m *Migrator) MigrateFromDump(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open dump %s: %w", path, err)
	}
	defer file.Close()

	start := time.Now()
	reader := bufio.NewReaderSize(file, 1<<20)
	batch := make([]*models.Profile, 0, m.batchSize)

	for {
		raw, err := readBSONDocument(reader)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read dump document: %w", err)
		}

		var legacy LegacyProfile
		if err := bson.Unmarshal(raw, &legacy); err != nil {
			slog.Warn("Skipping undecodable dump document",
				slog.String("type", "db"),
				slog.Any("error", err))
			m.skipped++
			continue
		}

		profile, ok := m.convert(legacy)
		if !ok {
			m.skipped++
			continue
		}
		batch = append(batch, profile)

		if len(batch) >= m.batchSize {
			if err := m.flush(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := m.flush(ctx, batch); err != nil {
		return err
	}

	slog.Info("Legacy import completed",
		slog.String("type", "db"),
		slog.String("source", path),
		slog.Int("imported", m.imported),
		slog.Int("skipped", m.skipped),
		slog.Duration("took", time.Since(start)))
	return nil
}

// readBSONDocument reads one length-prefixed BSON document. The 4-byte
// little-endian length includes itself.
func readBSONDocument(r *bufio.Reader) ([]byte, error) {
	header, err := r.Peek(4)
	if err != nil {
		return nil, err
	}
	length := int(binary.LittleEndian.Uint32(header))
	if length < 5 || length > 16*1024*1024 {
		return nil, fmt.Errorf("invalid BSON document length %d", length)
	}

	doc := make([]byte, length)
	if _, err := io.ReadFull(r, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (m *Migrator) convert(legacy LegacyProfile) (*models.Profile, bool) {
	if legacy.UserID == "" {
		return nil, false
	}

	lastLogin := ""
	if legacy.LastLogin != nil {
		if _, err := time.Parse(models.DateLayout, *legacy.LastLogin); err == nil {
			lastLogin = *legacy.LastLogin
		}
	}

	look := models.Look(legacy.CurrentLook)
	switch look {
	case models.LookNormal, models.LookSunglasses, models.LookPink:
	default:
		look = models.LookNormal
	}

	items := legacy.Items
	if items == nil {
		items = []string{}
	}

	createdAt := legacy.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return &models.Profile{
		UserID:      legacy.UserID,
		CarrotCount: max64(legacy.CarrotCount, 0),
		Streak:      maxInt(legacy.CurrentStreak, 0),
		LastLogin:   lastLogin,
		Items:       items,
		CurrentLook: look,
		CreatedAt:   createdAt,
		UpdatedAt:   time.Now(),
	}, true
}

func (m *Migrator) flush(ctx context.Context, batch []*models.Profile) error {
	if len(batch) == 0 {
		return nil
	}

	res, err := m.pgDB.NewInsert().
		Model(&batch).
		On("CONFLICT (user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert legacy batch: %w", err)
	}

	if rows, err := res.RowsAffected(); err == nil {
		m.imported += int(rows)
		m.skipped += len(batch) - int(rows)
	} else {
		m.imported += len(batch)
	}
	return nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
