package aggregates

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/yungbote/edutainment-backend/internal/platform/dbctx"
)

// Outcome says how GetOrCreate resolved its row.
type Outcome int

const (
	// Found: an existing row matched the lookup.
	Found Outcome = iota + 1
	// Created: this call inserted the row.
	Created
	// Recovered: the insert lost a race and the retry lookup found the winner.
	Recovered
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Created:
		return "created"
	case Recovered:
		return "recovered"
	default:
		return "unknown"
	}
}

// KeyPinner keeps the named *_id columns in the get-or-create lookup.
type KeyPinner interface {
	KeyPins() []string
}

// InsertOnlyFields names columns that are written on insert but never matched.
type InsertOnlyFields interface {
	InsertOnly() []string
}

// GetOrCreate returns the row matching candidate's natural key, inserting
// candidate when none exists. The lookup is candidate's columns minus a zero
// primary key, timestamps, unpinned *_id columns and insert-only columns.
//
// The insert runs in a savepoint. On a unique violation the savepoint is
// rolled back and the lookup is retried exactly once; if it still misses, the
// original violation is returned joined with ErrConflict.
func GetOrCreate[T any](dbc dbctx.Context, db *gorm.DB, candidate *T) (*T, Outcome, error) {
	if candidate == nil {
		return nil, 0, ValidationError("get-or-create: nil candidate")
	}
	tx := dbc.DB(db)
	where, err := LookupFields(tx, candidate)
	if err != nil {
		return nil, 0, err
	}
	op := "get_or_create " + tableName(tx, candidate)

	found, err := lookup[T](tx, where)
	if err != nil {
		return nil, 0, MapError(op, err)
	}
	if found != nil {
		return found, Found, nil
	}
	return insertOrRecover(tx, candidate, where, op)
}

func insertOrRecover[T any](tx *gorm.DB, candidate *T, where map[string]any, op string) (*T, Outcome, error) {
	insertErr := tx.Transaction(func(sp *gorm.DB) error {
		return sp.Create(candidate).Error
	})
	if insertErr == nil {
		return candidate, Created, nil
	}
	if !IsUniqueViolation(insertErr) {
		return nil, 0, MapError(op, insertErr)
	}
	found, err := lookup[T](tx, where)
	if err != nil {
		return nil, 0, MapError(op, err)
	}
	if found == nil {
		return nil, 0, errors.Join(ErrConflict, fmt.Errorf("%s: retry lookup missed: %w", op, insertErr))
	}
	return found, Recovered, nil
}

func lookup[T any](tx *gorm.DB, where map[string]any) (*T, error) {
	var row T
	err := tx.Where(where).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// LookupFields returns the column -> value map GetOrCreate matches on.
func LookupFields(db *gorm.DB, model any) (map[string]any, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	pins := toSet(model, func(m any) ([]string, bool) {
		p, ok := m.(KeyPinner)
		if !ok {
			return nil, false
		}
		return p.KeyPins(), true
	})
	insertOnly := toSet(model, func(m any) ([]string, bool) {
		p, ok := m.(InsertOnlyFields)
		if !ok {
			return nil, false
		}
		return p.InsertOnly(), true
	})

	rv := reflect.Indirect(reflect.ValueOf(model))
	ctx := db.Statement.Context

	// A caller-supplied primary key is the whole identity, so a row created
	// under another debug flag or with other attributes is still found.
	if pk := suppliedKey(ctx, stmt.Schema.PrimaryFields, rv); pk != nil {
		return pk, nil
	}

	out := map[string]any{}
	for _, f := range stmt.Schema.Fields {
		name := f.DBName
		switch {
		case name == "" || f.PrimaryKey:
			continue
		case f.AutoCreateTime != 0 || f.AutoUpdateTime != 0 || name == "deleted_at":
			continue
		case insertOnly[name]:
			continue
		}
		if strings.HasSuffix(name, "_id") && !pins[name] {
			continue
		}
		val, _ := f.ValueOf(ctx, rv)
		out[name] = val
	}
	if len(out) == 0 {
		return nil, ValidationError(fmt.Sprintf("get-or-create: %s has no lookup columns", stmt.Schema.Table))
	}
	return out, nil
}

func suppliedKey(ctx context.Context, fields []*schema.Field, rv reflect.Value) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		val, zero := f.ValueOf(ctx, rv)
		if zero {
			return nil
		}
		out[f.DBName] = val
	}
	return out
}

func toSet(model any, pick func(any) ([]string, bool)) map[string]bool {
	names, ok := pick(model)
	if !ok {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func tableName(db *gorm.DB, model any) string {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil || stmt.Schema == nil {
		return fmt.Sprintf("%T", model)
	}
	return stmt.Schema.Table
}
