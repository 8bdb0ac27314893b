package database

import (
	_ "embed"
	"strconv"
	"strings"
)

//go:embed schema/postgres.sql
var postgresSchema string

//go:embed schema/sqlite.sql
var sqliteSchema string

//go:embed schema/mysql.sql
var mysqlSchema string

// dialect captures what differs between the supported engines. Queries are
// written with "?" placeholders and rebound for engines that number them.
type dialect struct {
	name      string
	schema    string
	dollar    bool // $1, $2, ... placeholders
	returning bool // INSERT ... RETURNING id instead of LastInsertId
}

var (
	postgresDialect = dialect{name: "postgres", schema: postgresSchema, dollar: true, returning: true}
	sqliteDialect   = dialect{name: "sqlite", schema: sqliteSchema}
	mysqlDialect    = dialect{name: "mysql", schema: mysqlSchema}
)

func (d dialect) rebind(query string) string {
	if !d.dollar {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// statements splits the schema into single statements, since not every
// driver accepts several per Exec. Comment lines are dropped.
func (d dialect) statements() []string {
	var lines []string
	for _, line := range strings.Split(d.schema, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}
	var out []string
	for _, stmt := range strings.Split(strings.Join(lines, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
