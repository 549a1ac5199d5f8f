package user

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/petrin/storefront/internal/apperr"
)

func TestClassifyInsertErr_UniqueViolation(t *testing.T) {
	err := classifyInsertErr(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	if !apperr.IsValidation(err) {
		t.Fatalf("got %v, expected validation error", err)
	}
	fields := apperr.FieldsOf(err)
	if len(fields) != 1 || fields[0] != "email" {
		t.Fatalf("got fields %v, expected [email]", fields)
	}
}

func TestClassifyInsertErr_OtherFailuresAreStorage(t *testing.T) {
	cases := []error{
		&pgconn.PgError{Code: "57P01"}, // admin_shutdown
		errors.New("dial tcp: connection refused"),
	}
	for _, cause := range cases {
		err := classifyInsertErr(cause)
		if !apperr.IsStorage(err) {
			t.Errorf("cause %v: got %v, expected storage error", cause, err)
		}
	}
}
