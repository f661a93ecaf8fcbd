package utils

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// PreconditionError marks a guarded state transition that was attempted
// from the wrong state, e.g. cancelling a non-pending request. Handlers
// translate it to HTTP 412.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

func NewPreconditionError(format string, args ...interface{}) *PreconditionError {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

func IsPreconditionError(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// MySQL error numbers surfaced to users with a stable message.
const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
	mysqlNoSuchTable     = 1146
	mysqlUnknownColumn   = 1054
)

// MapStoreError converts driver/ORM errors into the small set of
// user-facing messages. Unknown errors pass through unchanged so the
// handler's log still carries the original cause.
func MapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New("record not found")
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDuplicateEntry:
			return errors.New("this record already exists")
		case mysqlRowIsReferenced, mysqlNoReferencedRow:
			return errors.New("referenced record does not exist")
		case mysqlNoSuchTable:
			return errors.New("table does not exist")
		case mysqlUnknownColumn:
			return errors.New("column does not exist")
		default:
			return errors.New("database error occurred")
		}
	}
	return err
}
