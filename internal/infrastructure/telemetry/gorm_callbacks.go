package telemetry

import (
	"strings"

	"gorm.io/gorm"
)

// registerAround registers before and after hooks on every gorm processor.
// after receives the SQL operation (SELECT, INSERT, ...).
func registerAround(db *gorm.DB, prefix string, before func(*gorm.DB), after func(*gorm.DB, string)) error {
	cb := db.Callback()
	hooks := []struct {
		name string
		op   string
		reg  func(name string, before, after func(*gorm.DB)) error
	}{
		{"create", "INSERT", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Create().Before("gorm:create").Register(prefix+":before_"+n, b); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register(prefix+":after_"+n, a)
		}},
		{"query", "SELECT", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Query().Before("gorm:query").Register(prefix+":before_"+n, b); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register(prefix+":after_"+n, a)
		}},
		{"update", "UPDATE", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Update().Before("gorm:update").Register(prefix+":before_"+n, b); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register(prefix+":after_"+n, a)
		}},
		{"delete", "DELETE", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Delete().Before("gorm:delete").Register(prefix+":before_"+n, b); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register(prefix+":after_"+n, a)
		}},
		{"row", "", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Row().Before("gorm:row").Register(prefix+":before_"+n, b); err != nil {
				return err
			}
			return cb.Row().After("gorm:row").Register(prefix+":after_"+n, a)
		}},
		{"raw", "", func(n string, b, a func(*gorm.DB)) error {
			if err := cb.Raw().Before("gorm:raw").Register(prefix+":before_"+n, b); err != nil {
				return err
			}
			return cb.Raw().After("gorm:raw").Register(prefix+":after_"+n, a)
		}},
	}

	for _, h := range hooks {
		op := h.op
		afterFn := func(tx *gorm.DB) {
			o := op
			if o == "" {
				o = detectOperationType(tx.Statement.SQL.String())
			}
			after(tx, o)
		}
		if err := h.reg(h.name, before, afterFn); err != nil {
			return err
		}
	}
	return nil
}

// detectOperationType reads the SQL verb of a raw statement
func detectOperationType(sql string) string {
	sql = strings.TrimSpace(strings.ToUpper(sql))
	for _, verb := range []string{"SELECT", "INSERT", "UPDATE", "DELETE", "WITH"} {
		if strings.HasPrefix(sql, verb) {
			if verb == "WITH" {
				return "SELECT"
			}
			return verb
		}
	}
	return "OTHER"
}
