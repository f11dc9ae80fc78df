package model

import "fmt"

// SchemaMismatchError reports a column referenced by a stage that the
// input table does not carry.
type SchemaMismatchError struct {
	Table  string
	Column string
}

func (e *SchemaMismatchError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("schema mismatch: column %s not present", e.Column)
	}
	return fmt.Sprintf("schema mismatch: column %s not present in %s", e.Column, e.Table)
}
