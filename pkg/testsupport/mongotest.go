package testsupport

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoURIEnv names the variable that enables mongo-backed tests.
const MongoURIEnv = "DEEPWOOD_TEST_MONGO_URI"

// NewMongoDatabase returns a throwaway database on the server named by
// DEEPWOOD_TEST_MONGO_URI, skipping the test when the variable is unset.
// The database is dropped on cleanup.
func NewMongoDatabase(t testing.TB) *mongo.Database {
	t.Helper()

	uri := strings.TrimSpace(os.Getenv(MongoURIEnv))
	if uri == "" {
		t.Skipf("%s not set", MongoURIEnv)
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}

	name := fmt.Sprintf("deepwood_test_%d", time.Now().UnixNano())
	db := client.Database(name)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}
