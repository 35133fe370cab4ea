package endpoint

import (
	"bytes"
	"fmt"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/pkg/errors"
)

// MSSQLError lists every message SQL Server returned for a statement,
// not only the last one. Line numbers are relative to the statement.
type MSSQLError struct {
	Wrapped mssql.Error
}

func (e MSSQLError) Error() string {
	var buf bytes.Buffer

	for i, item := range e.Wrapped.All {
		if i > 0 {
			buf.WriteString("\n")
		}
		if _, fmterr := fmt.Fprintf(&buf, "line %d (%s): %s",
			item.LineNo,
			item.ProcName,
			item.Message); fmterr != nil {
			panic(fmterr)
		}
	}
	return buf.String()
}

func (e MSSQLError) Unwrap() error {
	return e.Wrapped
}

// wrapError turns SQL Server errors carrying several messages into an
// MSSQLError. Other errors are returned unchanged.
func wrapError(err error) error {
	var msErr mssql.Error
	if errors.As(err, &msErr) && len(msErr.All) > 1 {
		return MSSQLError{Wrapped: msErr}
	}
	return err
}
