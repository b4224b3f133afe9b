// Package utils holds small adapters for database/sql driver types shared by
// the Postgres repositories.
package utils

import "database/sql"

// ToNullString maps the empty string to a NULL column value
func ToNullString(str string) sql.NullString {
	return sql.NullString{
		String: str,
		Valid:  str != "",
	}
}
