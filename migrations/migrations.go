// Package migrations embeds the schema files applied by the migrate command.
package migrations

import (
	"embed"
	"path"
)

//go:embed *.sql clickhouse/*.sql
var files embed.FS

// MySQL returns the MySQL schema in apply order.
func MySQL() ([]string, error) { return read(".") }

// ClickHouse returns the reporting schema in apply order.
func ClickHouse() ([]string, error) { return read("clickhouse") }

func read(dir string) ([]string, error) {
	entries, err := files.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		b, err := files.ReadFile(path.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, string(b))
	}
	return out, nil
}
