package database

import (
	"context"
	"fmt"
	"time"

	"yelocar/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	migrationsCollection = "migrations"
	auditLogsCollection  = "audit_logs"

	// AuditRetention is how long audit entries are kept before MongoDB
	// expires them.
	AuditRetention = 365 * 24 * time.Hour
)

type Migration struct {
	Version     int
	Description string
	Up          func(context.Context, *mongo.Database) error
	Down        func(context.Context, *mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
	logger     *logger.Logger
}

func NewMigrator(db *mongo.Database, log *logger.Logger) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
		logger:     log,
	}
}

func (m *Migrator) Up(ctx context.Context) error {
	if err := m.createMigrationsCollection(ctx); err != nil {
		return err
	}

	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version <= currentVersion {
			continue
		}
		m.logger.WithField("version", migration.Version).Info("Running migration: " + migration.Description)

		if err := migration.Up(ctx, m.db); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}
		if err := m.updateVersion(ctx, migration.Version); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) Down(ctx context.Context, targetVersion int) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		migration := m.migrations[i]
		if migration.Version > currentVersion || migration.Version <= targetVersion {
			continue
		}
		m.logger.WithField("version", migration.Version).Info("Reverting migration: " + migration.Description)

		if err := migration.Down(ctx, m.db); err != nil {
			return fmt.Errorf("migration %d rollback failed: %w", migration.Version, err)
		}

		previousVersion := targetVersion
		if i > 0 {
			previousVersion = m.migrations[i-1].Version
		}
		if err := m.updateVersion(ctx, previousVersion); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) createMigrationsCollection(ctx context.Context) error {
	collections, err := m.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: migrationsCollection}})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	if len(collections) > 0 {
		return nil
	}
	return m.db.CreateCollection(ctx, migrationsCollection)
}

func (m *Migrator) getCurrentVersion(ctx context.Context) (int, error) {
	var result struct {
		Version int `bson:"version"`
	}

	err := m.db.Collection(migrationsCollection).FindOne(ctx, bson.D{}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read migration version: %w", err)
	}

	return result.Version, nil
}

func (m *Migrator) updateVersion(ctx context.Context, version int) error {
	_, err := m.db.Collection(migrationsCollection).ReplaceOne(
		ctx,
		bson.D{},
		bson.D{{Key: "version", Value: version}, {Key: "updated_at", Value: time.Now()}},
		options.Replace().SetUpsert(true),
	)
	return err
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create audit_logs collection with indexes",
			Up:          createAuditLogIndexes,
			Down: func(ctx context.Context, db *mongo.Database) error {
				return db.Collection(auditLogsCollection).Drop(ctx)
			},
		},
		{
			Version:     2,
			Description: "Expire audit logs after the retention period",
			Up:          createAuditLogTTL,
			Down: func(ctx context.Context, db *mongo.Database) error {
				_, err := db.Collection(auditLogsCollection).Indexes().DropOne(ctx, "created_at_ttl")
				return err
			},
		},
	}
}

func createAuditLogIndexes(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection(auditLogsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "resource", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "resource_id", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func createAuditLogTTL(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(auditLogsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: 1}},
		Options: options.Index().
			SetName("created_at_ttl").
			SetExpireAfterSeconds(int32(AuditRetention.Seconds())),
	})
	return err
}
