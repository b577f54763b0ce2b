// Package query composes the optional list filters of the repositories.
//
// A Filter is a fixed set of named predicates (branch, date range, equality
// on a whitelisted column, overdue) that render into parameterized GORM
// Where clauses. Column names come only from the whitelist below, and values
// are always bound as parameters, so no caller input is ever concatenated
// into SQL.
//
// Usage:
//
//	f := query.New("sales").Branch(branchID).Between("created_at", period).Equals("payment_type", "credit")
//	db.Scopes(f.Scope()).Find(&rows)
package query

import (
	"fmt"
	"time"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// allowedColumns defines the column names predicates may reference.
// This whitelist prevents SQL injection via dynamic field names.
var allowedColumns = map[string]bool{
	"branch_id":      true,
	"created_at":     true,
	"due_date":       true,
	"payment_type":   true,
	"payment_status": true,
	"type":           true,
	"produce_id":     true,
}

// Predicate is a single named condition
type Predicate struct {
	Name  string
	Apply func(db *gorm.DB) *gorm.DB
}

// Filter is an ordered list of predicates over one table
type Filter struct {
	table      string
	predicates []Predicate
}

// New creates an empty filter. Columns are qualified with table so the
// filter stays unambiguous on joined queries.
func New(table string) *Filter {
	return &Filter{table: table}
}

func (f *Filter) column(name string) string {
	if !allowedColumns[name] {
		panic(fmt.Sprintf("query: column %q is not filterable", name))
	}
	if f.table == "" {
		return name
	}
	return f.table + "." + name
}

func (f *Filter) add(name string, apply func(db *gorm.DB) *gorm.DB) *Filter {
	f.predicates = append(f.predicates, Predicate{Name: name, Apply: apply})
	return f
}

// Branch restricts rows to one branch. A nil branch means unscoped.
func (f *Filter) Branch(branchID *uuid.UUID) *Filter {
	if branchID == nil {
		return f
	}
	col := f.column("branch_id")
	id := *branchID
	return f.add("branch", func(db *gorm.DB) *gorm.DB {
		return db.Where(col+" = ?", id)
	})
}

// Between restricts a timestamp column to a calendar-day range. The upper
// bound covers the whole of its day.
func (f *Filter) Between(column string, r shared.DateRange) *Filter {
	col := f.column(column)
	if r.From != nil {
		from := *r.From
		f.add("from", func(db *gorm.DB) *gorm.DB {
			return db.Where(col+" >= ?", from)
		})
	}
	if r.To != nil {
		to := r.To.AddDate(0, 0, 1)
		f.add("to", func(db *gorm.DB) *gorm.DB {
			return db.Where(col+" < ?", to)
		})
	}
	return f
}

// Equals adds column = value. Empty strings are skipped so optional query
// parameters can be passed straight through.
func (f *Filter) Equals(column string, value string) *Filter {
	if value == "" {
		return f
	}
	col := f.column(column)
	return f.add(column, func(db *gorm.DB) *gorm.DB {
		return db.Where(col+" = ?", value)
	})
}

// Overdue keeps unpaid credit rows whose due date is before asOf's day
func (f *Filter) Overdue(enabled bool, asOf time.Time) *Filter {
	if !enabled {
		return f
	}
	due := f.column("due_date")
	status := f.column("payment_status")
	y, m, d := asOf.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, asOf.Location())
	return f.add("overdue", func(db *gorm.DB) *gorm.DB {
		return db.Where(due+" < ? AND "+status+" <> ?", today, "paid")
	})
}

// Names lists the predicates in the order they were added
func (f *Filter) Names() []string {
	names := make([]string, len(f.predicates))
	for i, p := range f.predicates {
		names[i] = p.Name
	}
	return names
}

// Scope returns the filter as a GORM scope
func (f *Filter) Scope() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, p := range f.predicates {
			db = p.Apply(db)
		}
		return db
	}
}

// Paginate returns a GORM scope applying page limits
func Paginate(page shared.Page) func(db *gorm.DB) *gorm.DB {
	page = page.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(page.Offset()).Limit(page.Size)
	}
}
