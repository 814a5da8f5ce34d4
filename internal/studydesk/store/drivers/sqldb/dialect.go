package sqldb

import (
	"strconv"
	"strings"
)

// Dialect captures the few differences between the SQL engines we run on.
// Queries are written with '?' placeholders and rebound per dialect.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Rebind rewrites '?' placeholders into the dialect's native form. Queries in
// this package never contain a literal '?', so no quoting awareness is needed.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// DialectFromURL picks the dialect from a database URL.
func DialectFromURL(url string) Dialect {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// likePattern builds a case-insensitive substring pattern for use with
// LOWER(col) LIKE ? ESCAPE '\'.
func likePattern(q string) string {
	q = strings.ToLower(q)
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}
