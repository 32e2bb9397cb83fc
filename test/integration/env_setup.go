//go:build integration

package integration

// Test environment setup and server lifecycle management.
//
// Each test creates an empty temporary database; the server migrates it when it opens the
// gradebook. The database is dropped after each test.
//
// By default the server logs are not included in the test output, you can enable them with:
//
//	ENABLE_SERVER_LOGS=true go test -tags=integration -v ./test/integration
//

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ltilibrary/lti-go/internal/config"
	"github.com/ltilibrary/lti-go/internal/consumers"
	"github.com/ltilibrary/lti-go/internal/gradebook"
	"github.com/ltilibrary/lti-go/internal/logger"
	"github.com/ltilibrary/lti-go/internal/server"
)

// consumers registered in the test consumers file
const (
	consumerKey    = "moodle"
	consumerSecret = "moodle-secret"
	otherKey       = "canvas"
	otherSecret    = "canvas-secret"
	disabledKey    = "retired"
	disabledSecret = "old-secret"
)

const consumersYAML = `consumers:
  - key: moodle
    name: Moodle
    secret: moodle-secret
  - key: canvas
    name: Canvas
    secret_env: INTEGRATION_CANVAS_SECRET
  - key: retired
    secret: old-secret
    disabled: true
`

// testEnv provides access to the test db and server for integration tests
type testEnv struct {
	baseURL  string
	cfg      *config.ServerEnvironment
	pool     *pgxpool.Pool
	shutdown func()
}

// startInProcessServer starts lti-server in-process for testing - returns the base URL and a
// shutdown function the test must defer
func startInProcessServer(t *testing.T) *testEnv {
	t.Helper()

	testEnv := &testEnv{}

	t.Log("Starting in-process server...")

	var (
		ctx           = context.Background()
		host          = "localhost"
		port          = findFreePort(t)
		rateLimitRPS  = 0
		environment   = "test"
		logLevel      = "none"
		consumersPath = filepath.Join(t.TempDir(), "consumers.yaml")
	)

	if os.Getenv("ENABLE_SERVER_LOGS") == "true" {
		logLevel = "debug"
	}

	if err := os.WriteFile(consumersPath, []byte(consumersYAML), 0o600); err != nil {
		t.Fatalf("Failed to write consumers file: %v", err)
	}

	// configure db
	testEnv.pool = setupTestDatabase(t)
	testDatabaseURL := testEnv.pool.Config().ConnString()

	testEnvVars := map[string]string{
		"HOST":           host,
		"RATE_LIMIT_RPS": fmt.Sprintf("%d", rateLimitRPS),
		"DATABASE_URL":   testDatabaseURL,
		"ENVIRONMENT":    environment,
		"LOG_LEVEL":      logLevel,
		"PORT":           fmt.Sprintf("%d", port),
		"PAGE_SIZE":      "2",
		"MAX_PAGE_SIZE":  "10",

		"CONSUMERS_PATH":            consumersPath,
		"INTEGRATION_CANVAS_SECRET": otherSecret,
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	cfg, err := config.NewServerConfig()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(logLevel), "test")

	registry, err := consumers.LoadFile(cfg.ConsumersPath)
	if err != nil {
		t.Fatalf("Failed to load consumers: %v", err)
	}

	store, err := gradebook.Open(ctx, cfg, appLogger)
	if err != nil {
		t.Fatalf("Failed to open gradebook: %v", err)
	}

	serverInstance := server.NewServer(store, registry, cfg, appLogger)

	// Create a cancellable context for server shutdown
	serverCtx, serverCancel := context.WithCancel(ctx)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := serverInstance.Start(serverCtx); err != nil {
			serverDone <- err
		}
	}()

	testEnv.shutdown = func() {
		t.Log("Stopping server...")

		serverCancel()

		select {
		case err := <-serverDone:
			if err != nil {
				t.Logf("Server shutdown with error: %v", err)
			} else {
				t.Log("Server shut down gracefully")
			}
		case <-time.After(5 * time.Second):
			t.Log("Server shutdown timeout")
		}

		serverInstance.StoreShutdown()
	}

	testEnv.baseURL = fmt.Sprintf("http://localhost:%d", port)
	testEnv.cfg = cfg

	if !waitForServer(t, testEnv.baseURL+"/health/ready", 30*time.Second) {
		testEnv.shutdown()
		t.Fatal("Server failed to start within timeout")
	}

	t.Logf("Server started at %s", testEnv.baseURL)
	return testEnv
}

func findFreePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to find free port: %v", err)
	}
	defer listener.Close()

	addr := listener.Addr().(*net.TCPAddr)
	return addr.Port
}

func waitForServer(t *testing.T, url string, timeout time.Duration) bool {
	t.Helper()

	client := &http.Client{Timeout: 1 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}

// Test database configuration

type databaseConfig struct {
	userAndPassword string
	dbname          string
	host            string
	port            int
}

func (d *databaseConfig) connectionURL() string {
	return fmt.Sprintf("postgres://%s@%s:%d/%s?sslmode=disable",
		d.userAndPassword, d.host, d.port, d.dbname)
}

func (d *databaseConfig) WithDatabase(dbname string) *databaseConfig {
	return &databaseConfig{
		userAndPassword: d.userAndPassword,
		host:            d.host,
		port:            d.port,
		dbname:          dbname,
	}
}

func localDatabaseConfig() *databaseConfig {
	return &databaseConfig{
		userAndPassword: "lti-dev",
		dbname:          "tmp_lti_integration_test",
		host:            "localhost",
		port:            15433,
	}
}

func ciDatabaseConfig() *databaseConfig {
	return &databaseConfig{
		userAndPassword: "postgres:postgres",
		dbname:          "tmp_lti_integration_test",
		host:            "localhost",
		port:            5432,
	}
}

// setupTestDatabase creates an empty test db and returns a connection pool to it.
// The CI database config is used when running under GitHub Actions.
func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()
	config := *localDatabaseConfig()
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		config = *ciDatabaseConfig()
	}

	// connect to the postgres database to create the test database
	postgresConnectionURL := config.WithDatabase("postgres").connectionURL()

	// this pool stays open until the test database has been dropped
	postgresPool, err := pgxpool.New(ctx, postgresConnectionURL)
	if err != nil {
		t.Fatalf("Unable to create postgres connection pool: %v", err)
	}
	if err := postgresPool.Ping(ctx); err != nil {
		postgresPool.Close()
		t.Skipf("Can't ping PostgreSQL server %s: %v", postgresConnectionURL, err)
	}

	if _, err := postgresPool.Exec(ctx, "DROP DATABASE IF EXISTS "+config.dbname); err != nil {
		t.Fatalf("DROP DATABASE IF EXISTS Failed : %v", err)
	}
	if _, err := postgresPool.Exec(ctx, "CREATE DATABASE "+config.dbname); err != nil {
		t.Fatalf("CREATE DATABASE Failed : %v", err)
	}

	// cleanups run last in first out: the test pool closes, the database is dropped, then
	// the postgres pool closes
	t.Cleanup(func() {
		postgresPool.Close()
	})
	t.Cleanup(func() {
		if _, err := postgresPool.Exec(ctx, "DROP DATABASE "+config.dbname+" WITH (FORCE)"); err != nil {
			t.Errorf("Failed to drop test database: %v", err)
		}
	})

	pool, err := pgxpool.New(ctx, config.connectionURL())
	if err != nil {
		t.Fatalf("Unable to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	t.Logf("Database ready: %s", config.dbname)
	return pool
}
