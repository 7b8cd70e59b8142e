package persistence

import (
	"fmt"
	"strings"

	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
)

// categoryOrderClause sorts rows by wizard position of their category column
func categoryOrderClause() string {
	var b strings.Builder
	b.WriteString("CASE category")
	for i, c := range project.AllCategories() {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", c, i)
	}
	fmt.Fprintf(&b, " ELSE %d END", len(project.AllCategories()))
	return b.String()
}
