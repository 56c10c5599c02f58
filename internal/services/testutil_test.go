package services

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"salesloop/crm/internal/config"
)

var testMongoURI string

func init() {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "..", "..")
	if err := godotenv.Load(filepath.Join(projectRoot, ".env")); err != nil {
		godotenv.Load()
	}
	testMongoURI = os.Getenv("MONGO_URI_TEST")
}

// setupTestDB connects to the test MongoDB and drops the named collections.
// Tests that need a live database are skipped when MONGO_URI_TEST is unset.
func setupTestDB(t *testing.T, dbName string, collections ...string) *mongo.Database {
	t.Helper()
	if testMongoURI == "" {
		t.Skip("MONGO_URI_TEST not set; skipping database-backed test")
	}
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(testMongoURI))
	require.NoError(t, err, "Failed to connect to MongoDB")
	db := client.Database(dbName)
	for _, coll := range collections {
		_ = db.Collection(coll).Drop(context.Background())
	}
	return db
}

// testConfig returns a Config with the defaults used across service tests.
func testConfig() *config.Config {
	return &config.Config{
		AllowedEmailDomain: "@gmail.com",
		AdminUsername:      "boss@gmail.com",
		MergeCreateMissing: true,
	}
}
