package pgerr

import (
	"errors"
	"fmt"
	"testing"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestNotFound(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, domain.ErrNotFound},
		{"malformed uuid", &pgconn.PgError{Code: "22P02"}, domain.ErrNotFound},
		{"wrapped malformed uuid", fmt.Errorf("get: %w", &pgconn.PgError{Code: "22P02"}), domain.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, nil},
		{"other", boom, boom},
	}
	for _, tc := range cases {
		got := NotFound(tc.err)
		if tc.want == nil {
			if got != tc.err {
				t.Fatalf("%s: expected error unchanged, got %v", tc.name, got)
			}
			continue
		}
		if !errors.Is(got, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestClassifiers(t *testing.T) {
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("expected unique violation")
	}
	if !IsForeignKeyViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})) {
		t.Fatalf("expected wrapped foreign key violation")
	}
	if IsInvalidText(errors.New("22P02")) {
		t.Fatalf("plain errors must not be classified")
	}
}
