package repository

import (
	"strings"
	"testing"
)

func TestListBySessionQueryWithoutLimit(t *testing.T) {
	sql, args, err := listBySessionQuery("sess-1", 0).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if strings.Contains(sql, "LIMIT") {
		t.Fatalf("limit 0 must fetch the full transcript, got %q", sql)
	}
	if len(args) != 1 || args[0] != "sess-1" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestListBySessionQueryWithLimit(t *testing.T) {
	sql, _, err := listBySessionQuery("sess-1", 5).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if !strings.Contains(sql, "LIMIT 5") {
		t.Fatalf("expected LIMIT 5 clause, got %q", sql)
	}
	if !strings.Contains(sql, "ORDER BY created_at ASC") {
		t.Fatalf("transcript must be chronological, got %q", sql)
	}
}
