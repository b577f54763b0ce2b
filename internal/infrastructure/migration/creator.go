package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

var migrationTemplate = template.Must(template.New("migration").Parse(`-- Migration: {{.Name}}{{if .Down}} (Rollback){{end}}
-- Created: {{.Created}}
{{- if .Description}}
-- Description: {{.Description}}
{{- end}}

`))

// Migration is one numbered up/down pair on disk
type Migration struct {
	Version uint
	Name    string
}

// FileBase returns the shared prefix of the pair, e.g. 000002_add_depots
func (m Migration) FileBase() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

// CreatedMigration describes the files written by CreateMigration
type CreatedMigration struct {
	Migration
	UpPath   string
	DownPath string
}

// CreateMigration writes the next numbered pair after the highest
// version already in dir.
func CreateMigration(dir, name, description string) (*CreatedMigration, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := ListMigrations(dir)
	if err != nil {
		return nil, err
	}
	next := uint(1)
	if len(existing) > 0 {
		next = existing[len(existing)-1].Version + 1
	}

	created := &CreatedMigration{Migration: Migration{Version: next, Name: slug}}
	created.UpPath = filepath.Join(dir, created.FileBase()+upSuffix)
	created.DownPath = filepath.Join(dir, created.FileBase()+downSuffix)

	data := struct {
		Name, Description, Created string
		Down                       bool
	}{Name: slug, Description: description, Created: time.Now().Format(time.RFC3339)}

	if err := writeTemplate(created.UpPath, data); err != nil {
		return nil, err
	}
	data.Down = true
	if err := writeTemplate(created.DownPath, data); err != nil {
		_ = os.Remove(created.UpPath)
		return nil, err
	}
	return created, nil
}

func writeTemplate(path string, data any) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := migrationTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return nil
}

// sanitizeName lowercases name and collapses separators into single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// ListMigrations returns the numbered up migrations in dir ordered by
// version. A missing directory yields an empty list.
func ListMigrations(dir string) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []Migration{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	out := make([]Migration, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), upSuffix) {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), upSuffix)
		prefix, name, ok := strings.Cut(base, "_")
		if !ok {
			continue
		}
		version, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, Migration{Version: uint(version), Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}
