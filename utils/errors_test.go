package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapStoreError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want string
	}{
		{"record not found", gorm.ErrRecordNotFound, "record not found"},
		{"duplicate entry", &mysql.MySQLError{Number: 1062}, "this record already exists"},
		{"row is referenced", &mysql.MySQLError{Number: 1451}, "referenced record does not exist"},
		{"no referenced row", &mysql.MySQLError{Number: 1452}, "referenced record does not exist"},
		{"no such table", &mysql.MySQLError{Number: 1146}, "table does not exist"},
		{"unknown column", &mysql.MySQLError{Number: 1054}, "column does not exist"},
		{"other mysql error", &mysql.MySQLError{Number: 1040}, "database error occurred"},
	}

	for _, tc := range cases {
		assert.EqualError(t, MapStoreError(tc.in), tc.want, tc.name)
	}

	// Wrapped driver errors still map.
	wrapped := fmt.Errorf("create request: %w", &mysql.MySQLError{Number: 1062})
	assert.EqualError(t, MapStoreError(wrapped), "this record already exists")

	// Unknown errors pass through unchanged.
	plain := errors.New("boom")
	assert.Equal(t, plain, MapStoreError(plain))
	assert.NoError(t, MapStoreError(nil))
}

func TestPreconditionError(t *testing.T) {
	err := NewPreconditionError("only pending requests can be cancelled (current status: %s)", "approved")
	assert.True(t, IsPreconditionError(err))
	assert.Contains(t, err.Error(), "approved")

	wrapped := fmt.Errorf("cancel: %w", err)
	assert.True(t, IsPreconditionError(wrapped))

	assert.False(t, IsPreconditionError(errors.New("boom")))
}
