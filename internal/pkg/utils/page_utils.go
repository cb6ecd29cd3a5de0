package utils

import "sentrix/internal/domain/entity"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// ClampPage bounds limit to [1, MaxPageLimit] with DefaultPageLimit for non-positive input
// and floors offset at zero.
func ClampPage(limit, offset int) entity.Page {
	switch {
	case limit <= 0:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return entity.Page{Limit: limit, Offset: offset}
}
