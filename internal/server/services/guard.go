package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/vocabkeeper/internal/common"
	"github.com/dmitrijs2005/vocabkeeper/internal/logging"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/models"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/telemetry"
)

// Decision is the outcome of an ownership check.
type Decision int

const (
	Denied Decision = iota
	Allowed
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "denied"
}

// Owned is implemented by resources that belong to exactly one user.
type Owned interface {
	Owner() string
}

// Guard enforces that users only touch resources they own.
type Guard struct {
	logger logging.Logger
}

func NewGuard(logger logging.Logger) *Guard {
	return &Guard{logger: logger.With("module", "ownership_guard")}
}

// Authorize is Allowed iff resource is owned by user.
func (g *Guard) Authorize(user *models.User, resource Owned) Decision {
	if user == nil || resource == nil || user.ID == "" {
		return Denied
	}
	if resource.Owner() != user.ID {
		return Denied
	}
	return Allowed
}

// Check folds a lookup result and the ownership decision into one error.
// A missing resource and a foreign one both return
// common.ErrNotFoundOrForbidden; other lookup errors pass through.
func (g *Guard) Check(ctx context.Context, kind string, user *models.User, resource Owned, lookupErr error) error {
	if lookupErr != nil {
		if errors.Is(lookupErr, common.ErrorNotFound) {
			return common.ErrNotFoundOrForbidden
		}
		return lookupErr
	}
	if g.Authorize(user, resource) == Denied {
		telemetry.OwnershipDenials.WithLabelValues(kind).Inc()
		g.logger.Debug(ctx, "ownership check denied", "resource", kind)
		return common.ErrNotFoundOrForbidden
	}
	return nil
}
