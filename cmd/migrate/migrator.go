package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// target names the Spanner instance and database being migrated.
type target struct {
	project  string
	instance string
	database string
	emulator bool
}

func (t target) ProjectPath() string  { return "projects/" + t.project }
func (t target) InstancePath() string { return t.ProjectPath() + "/instances/" + t.instance }
func (t target) DatabasePath() string { return t.InstancePath() + "/databases/" + t.database }

// migrator owns the admin clients for one run.
type migrator struct {
	target    target
	instances *instance.InstanceAdminClient
	databases *database.DatabaseAdminClient
}

func newMigrator(ctx context.Context, t target) (*migrator, error) {
	instances, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create instance admin client: %w", err)
	}
	databases, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		instances.Close()
		return nil, fmt.Errorf("failed to create database admin client: %w", err)
	}
	return &migrator{target: t, instances: instances, databases: databases}, nil
}

func (m *migrator) Close() {
	m.databases.Close()
	m.instances.Close()
}

// ensure creates a resource when lookup reports NotFound. A concurrent
// creator winning the race (AlreadyExists) counts as success.
func ensure(kind, name string, lookup, create func() error) error {
	err := lookup()
	switch {
	case err == nil:
		log.Info(kind+" already exists", zap.String("name", name))
		return nil
	case status.Code(err) != codes.NotFound:
		return fmt.Errorf("failed to look up %s %s: %w", kind, name, err)
	}

	log.Info("creating "+kind, zap.String("name", name))
	if err := create(); err != nil && status.Code(err) != codes.AlreadyExists {
		return fmt.Errorf("failed to create %s %s: %w", kind, name, err)
	}
	log.Info(kind+" ready", zap.String("name", name))
	return nil
}

func (m *migrator) EnsureInstance(ctx context.Context) error {
	t := m.target
	return ensure("instance", t.InstancePath(),
		func() error {
			_, err := m.instances.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: t.InstancePath()})
			return err
		},
		func() error {
			op, err := m.instances.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
				Parent:     t.ProjectPath(),
				InstanceId: t.instance,
				Instance: &instancepb.Instance{
					Config:      t.ProjectPath() + "/instanceConfigs/emulator-config",
					DisplayName: "Cart Pricing " + t.instance,
					NodeCount:   1,
				},
			})
			if err != nil {
				return err
			}
			_, err = op.Wait(ctx)
			return err
		},
	)
}

func (m *migrator) EnsureDatabase(ctx context.Context) error {
	t := m.target
	err := ensure("database", t.DatabasePath(),
		func() error {
			_, err := m.databases.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: t.DatabasePath()})
			return err
		},
		func() error {
			op, err := m.databases.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
				Parent:          t.InstancePath(),
				CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", t.database),
			})
			if err != nil {
				return err
			}
			_, err = op.Wait(ctx)
			return err
		},
	)
	// The emulator answers some lookups with odd codes for a database that exists.
	if err != nil && t.emulator {
		log.Warn("proceeding with database (emulator mode)", zap.Error(err))
		return nil
	}
	return err
}

// Apply runs every *.sql file in dir in name order. CREATE statements for
// tables and indexes that already exist are skipped, so reruns are safe.
func (m *migrator) Apply(ctx context.Context, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		log.Info("no migration files found", zap.String("dir", dir))
		return nil
	}

	ddl, err := m.databases.GetDatabaseDdl(ctx, &databasepb.GetDatabaseDdlRequest{Database: m.target.DatabasePath()})
	if err != nil {
		return fmt.Errorf("failed to read current schema: %w", err)
	}
	existing := make(map[string]bool)
	for _, stmt := range ddl.GetStatements() {
		if name := createdObject(stmt); name != "" {
			existing[name] = true
		}
	}

	for _, file := range files {
		name := filepath.Base(file)

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		pending := pendingStatements(splitDDLStatements(string(content)), existing)
		if len(pending) == 0 {
			log.Info("migration already applied", zap.String("file", name))
			continue
		}

		log.Info("applying migration", zap.String("file", name), zap.Int("statements", len(pending)))
		op, err := m.databases.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   m.target.DatabasePath(),
			Statements: pending,
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}

		for _, stmt := range pending {
			if obj := createdObject(stmt); obj != "" {
				existing[obj] = true
			}
		}
	}
	return nil
}

var createPattern = regexp.MustCompile(`(?is)^\s*CREATE\s+(?:UNIQUE\s+|NULL_FILTERED\s+)*(TABLE|INDEX)\s+` + "`?" + `(\w+)`)

// createdObject returns "table:name" or "index:name" for a CREATE TABLE or
// CREATE INDEX statement, and "" for anything else.
func createdObject(stmt string) string {
	match := createPattern.FindStringSubmatch(stmt)
	if match == nil {
		return ""
	}
	return strings.ToLower(match[1]) + ":" + strings.ToLower(match[2])
}

func pendingStatements(statements []string, existing map[string]bool) []string {
	var pending []string
	for _, stmt := range statements {
		if obj := createdObject(stmt); obj != "" && existing[obj] {
			continue
		}
		pending = append(pending, stmt)
	}
	return pending
}

// splitDDLStatements drops comment lines and splits on semicolons.
func splitDDLStatements(content string) []string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		kept = append(kept, line)
	}

	var statements []string
	for _, stmt := range strings.Split(strings.Join(kept, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
