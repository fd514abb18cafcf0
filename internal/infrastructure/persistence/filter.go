package persistence

import (
	"regexp"

	"gorm.io/gorm"

	"github.com/sealshop/backend/internal/domain/shared"
)

// identifierPattern matches a bare column name. OrderBy values come from
// request queries, so anything else is ignored rather than interpolated.
var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func applyOrder(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.OrderBy == "" || !identifierPattern.MatchString(filter.OrderBy) {
		return query
	}
	dir := "ASC"
	if filter.Desc {
		dir = "DESC"
	}
	return query.Order(filter.OrderBy + " " + dir)
}

func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	return query
}
