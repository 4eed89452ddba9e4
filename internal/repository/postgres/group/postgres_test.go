package group

import (
	"context"
	"strings"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	groupdomain "social-app-go/internal/domain/group"
)

type statement struct {
	sql  string
	vars []interface{}
}

// dryRunDB builds statements without a server and records the last create or update.
func dryRunDB(t *testing.T) (*gorm.DB, *statement) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=social dbname=social sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("open dry run db: %v", err)
	}

	last := &statement{}
	capture := func(tx *gorm.DB) {
		last.sql = tx.Statement.SQL.String()
		last.vars = append([]interface{}(nil), tx.Statement.Vars...)
	}
	if err := db.Callback().Create().After("gorm:create").Register("test:capture_create", capture); err != nil {
		t.Fatalf("register create callback: %v", err)
	}
	if err := db.Callback().Update().After("gorm:update").Register("test:capture_update", capture); err != nil {
		t.Fatalf("register update callback: %v", err)
	}
	return db, last
}

// insertedValues pairs the column list of an INSERT with its bound values.
func insertedValues(t *testing.T, stmt *statement) map[string]interface{} {
	t.Helper()

	start := strings.Index(stmt.sql, "(")
	end := strings.Index(stmt.sql, ")")
	if !strings.HasPrefix(stmt.sql, "INSERT") || start < 0 || end < start {
		t.Fatalf("expected an INSERT statement, got %q", stmt.sql)
	}
	columns := strings.Split(stmt.sql[start+1:end], ",")
	if len(columns) > len(stmt.vars) {
		t.Fatalf("columns %v do not match vars %v", columns, stmt.vars)
	}

	values := make(map[string]interface{}, len(columns))
	for i, column := range columns {
		values[strings.Trim(strings.TrimSpace(column), `"`)] = stmt.vars[i]
	}
	return values
}

func TestCreateGroupKeepsAutoApproval(t *testing.T) {
	for _, autoApproval := range []bool{false, true} {
		db, last := dryRunDB(t)
		repo := NewPostgres(db)

		group := &groupdomain.Group{Name: "Readers", Slug: "readers", AutoApproval: autoApproval, OwnerID: 1}
		if err := repo.CreateGroup(context.Background(), group); err != nil {
			t.Fatalf("create group: %v", err)
		}

		if group.AutoApproval != autoApproval {
			t.Fatalf("auto_approval=%v was rewritten to %v", autoApproval, group.AutoApproval)
		}
		got, ok := insertedValues(t, last)["auto_approval"]
		if !ok {
			t.Fatalf("auto_approval missing from %q", last.sql)
		}
		if got != autoApproval {
			t.Fatalf("expected auto_approval %v in INSERT, got %v (%q)", autoApproval, got, last.sql)
		}
	}
}

func TestUpdateGroupWritesZeroValues(t *testing.T) {
	db, last := dryRunDB(t)
	repo := NewPostgres(db)

	group := &groupdomain.Group{ID: 3, Name: "Readers", Slug: "readers", AutoApproval: false}
	if err := repo.UpdateGroup(context.Background(), group); err != nil {
		t.Fatalf("update group: %v", err)
	}

	if !strings.Contains(last.sql, `"auto_approval"=`) || !strings.Contains(last.sql, `"description"=`) {
		t.Fatalf("expected auto_approval and description in UPDATE, got %q", last.sql)
	}
	hasFalse := false
	for _, v := range last.vars {
		if b, ok := v.(bool); ok && !b {
			hasFalse = true
		}
	}
	if !hasFalse {
		t.Fatalf("expected false bound for auto_approval, got %v", last.vars)
	}
}
