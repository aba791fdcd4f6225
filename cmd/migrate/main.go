// Command migrate creates the Spanner instance and database when missing
// (emulator setups) and applies migrations/*.sql. Statements whose table or
// index already exists are skipped, so the tool can be rerun safely.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/markup-catalog/internal/config"
	"github.com/light-bringer/markup-catalog/internal/pkg/logger"
)

// target identifies one Spanner database.
type target struct {
	project  string
	instance string
	database string
}

// parseDatabasePath splits projects/P/instances/I/databases/D.
func parseDatabasePath(path string) (target, error) {
	parts := strings.Split(path, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[2] != "instances" || parts[4] != "databases" ||
		parts[1] == "" || parts[3] == "" || parts[5] == "" {
		return target{}, fmt.Errorf("invalid database path %q", path)
	}
	return target{project: parts[1], instance: parts[3], database: parts[5]}, nil
}

func (t target) projectPath() string  { return "projects/" + t.project }
func (t target) instancePath() string { return t.projectPath() + "/instances/" + t.instance }
func (t target) databasePath() string { return t.instancePath() + "/databases/" + t.database }

type migrator struct {
	target   target
	dir      string
	emulator bool
	log      *zap.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	dbPath := flag.String("database", cfg.Store.SpannerDatabase, "Spanner database path (projects/P/instances/I/databases/D)")
	dir := flag.String("migrations", "migrations", "Directory containing migration SQL files")
	flag.Parse()

	zl, err := logger.New(cfg.Server.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	t, err := parseDatabasePath(*dbPath)
	if err != nil {
		zl.Fatal("Invalid -database", zap.Error(err))
	}

	m := &migrator{
		target:   t,
		dir:      *dir,
		emulator: os.Getenv("SPANNER_EMULATOR_HOST") != "",
		log:      zl.With(zap.String("database", t.databasePath())),
	}
	if m.emulator {
		m.log.Info("Using Spanner emulator", zap.String("host", os.Getenv("SPANNER_EMULATOR_HOST")))
	}

	if err := m.run(context.Background()); err != nil {
		m.log.Fatal("Migration failed", zap.Error(err))
	}
	m.log.Info("Migrations completed successfully")
}

func (m *migrator) run(ctx context.Context) error {
	if m.emulator {
		if err := m.ensureInstance(ctx); err != nil {
			return fmt.Errorf("failed to ensure instance: %w", err)
		}
	}

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	if err := m.ensureDatabase(ctx, adminClient); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}
	return m.applyMigrations(ctx, adminClient)
}

// ensureInstance creates the instance on the emulator. Real instances are
// provisioned outside this tool.
func (m *migrator) ensureInstance(ctx context.Context) error {
	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: m.target.instancePath()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to get instance: %w", err)
	}

	m.log.Info("Creating emulator instance", zap.String("instance", m.target.instance))
	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     m.target.projectPath(),
		InstanceId: m.target.instance,
		Instance: &instancepb.Instance{
			Config:      m.target.projectPath() + "/instanceConfigs/emulator-config",
			DisplayName: "Markup Catalog (emulator)",
			NodeCount:   1,
		},
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create instance: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		return fmt.Errorf("failed to wait for instance creation: %w", err)
	}
	return nil
}

func (m *migrator) ensureDatabase(ctx context.Context, adminClient *database.DatabaseAdminClient) error {
	_, err := adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: m.target.databasePath()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to get database: %w", err)
	}

	m.log.Info("Creating database")
	op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          m.target.instancePath(),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", m.target.database),
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}
	return nil
}

func (m *migrator) applyMigrations(ctx context.Context, adminClient *database.DatabaseAdminClient) error {
	files, err := filepath.Glob(filepath.Join(m.dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		m.log.Info("No migration files found", zap.String("dir", m.dir))
		return nil
	}

	ddl, err := adminClient.GetDatabaseDdl(ctx, &databasepb.GetDatabaseDdlRequest{Database: m.target.databasePath()})
	if err != nil {
		return fmt.Errorf("failed to read current schema: %w", err)
	}
	existing := ddlObjects(ddl.GetStatements())

	for _, file := range files {
		name := filepath.Base(file)
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		stmts := pendingStatements(splitDDLStatements(string(content)), existing)
		if len(stmts) == 0 {
			m.log.Info("Migration already applied", zap.String("file", name))
			continue
		}

		m.log.Info("Applying migration", zap.String("file", name), zap.Int("statements", len(stmts)))
		op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   m.target.databasePath(),
			Statements: stmts,
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}
		for obj := range ddlObjects(stmts) {
			existing[obj] = struct{}{}
		}
	}
	return nil
}

// splitDDLStatements drops comment and blank lines and splits the rest on
// semicolons.
func splitDDLStatements(content string) []string {
	var cleaned []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}

// ddlObject returns the table or index a CREATE statement defines, or "" for
// any other statement.
func ddlObject(stmt string) string {
	fields := strings.Fields(strings.ToUpper(stmt))
	orig := strings.Fields(stmt)
	if len(fields) < 3 || fields[0] != "CREATE" {
		return ""
	}
	for i := 1; i < len(fields)-1; i++ {
		switch fields[i] {
		case "UNIQUE", "NULL_FILTERED":
			continue
		case "TABLE", "INDEX":
			name := orig[i+1]
			if j := strings.IndexByte(name, '('); j >= 0 {
				name = name[:j]
			}
			return strings.ToLower(fields[i]) + ":" + strings.Trim(name, "`")
		}
		return ""
	}
	return ""
}

func ddlObjects(stmts []string) map[string]struct{} {
	objs := make(map[string]struct{}, len(stmts))
	for _, s := range stmts {
		if obj := ddlObject(s); obj != "" {
			objs[obj] = struct{}{}
		}
	}
	return objs
}

// pendingStatements drops CREATE statements for objects that already exist.
func pendingStatements(stmts []string, existing map[string]struct{}) []string {
	var pending []string
	for _, s := range stmts {
		if _, ok := existing[ddlObject(s)]; ok {
			continue
		}
		pending = append(pending, s)
	}
	return pending
}
