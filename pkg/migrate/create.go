package migrate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"time"
)

const versionLayout = "20060102150405"

var (
	nonSlugRe     = regexp.MustCompile(`[^a-z0-9]+`)
	createTableRe = regexp.MustCompile(`^create_([a-z0-9_]+)$`)
)

// now is swapped in tests.
var now = func() time.Time { return time.Now().UTC() }

var migrationTemplate = template.Must(template.New("migration").Parse(`-- +goose Up
-- +goose StatementBegin
{{- if .Table}}
CREATE TABLE IF NOT EXISTS {{.Table}} (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
{{- else}}
-- {{.Slug}}
{{- end}}
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
{{- if .Table}}
DROP TABLE IF EXISTS {{.Table}};
{{- else}}
-- rollback {{.Slug}}
{{- end}}
-- +goose StatementEnd
`))

// Slug normalizes a free-form migration name into the filename suffix.
func Slug(name string) string {
	return strings.Trim(nonSlugRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

// CreateSQLMigration writes <dir>/<version>_<slug>.sql. Names of the form
// create_<table> get a table skeleton. A slug already used by another version
// in dir is rejected.
func CreateSQLMigration(dir, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	slug := Slug(name)
	if slug == "" {
		return "", fmt.Errorf("migration name %q has no usable characters", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}
	existing, err := filepath.Glob(filepath.Join(dir, "*_"+slug+".sql"))
	if err != nil {
		return "", err
	}
	for _, path := range existing {
		if m := sqlFileRe.FindStringSubmatch(filepath.Base(path)); m != nil {
			return "", fmt.Errorf("migration %q already exists as version %s", slug, m[1])
		}
	}

	var body bytes.Buffer
	data := struct{ Slug, Table string }{Slug: slug}
	if m := createTableRe.FindStringSubmatch(slug); m != nil {
		data.Table = m[1]
	}
	if err := migrationTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render migration: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", now().Format(versionLayout), slug))
	if err := os.WriteFile(path, body.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", path, err)
	}
	return path, nil
}
