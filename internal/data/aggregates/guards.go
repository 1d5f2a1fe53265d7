package aggregates

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lingua-backend/internal/platform/dbctx"
)

// Transition moves one row from any of From to To. Set holds extra columns written with it.
type Transition struct {
	Table string
	ID    uuid.UUID
	From  []string
	To    string
	Set   map[string]any
}

func (t Transition) validate() error {
	switch {
	case strings.TrimSpace(t.Table) == "" || t.ID == uuid.Nil:
		return ValidationError("transition needs a table and row id")
	case len(t.From) == 0 || strings.TrimSpace(t.To) == "":
		return ValidationError("transition needs source and target statuses")
	}
	return nil
}

// CASGuard applies status transitions as compare-and-set updates.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

// Apply performs t and reports whether the row was still in a From status. false means
// another writer already moved it, which is not an error.
func (g CASGuard) Apply(dbc dbctx.Context, t Transition) (bool, error) {
	conn := dbc.Tx
	if conn == nil {
		conn = g.db
	}
	if conn == nil {
		return false, ValidationError("missing db transaction context")
	}
	if err := t.validate(); err != nil {
		return false, err
	}

	updates := make(map[string]any, len(t.Set)+1)
	for k, v := range t.Set {
		updates[k] = v
	}
	updates["status"] = t.To

	res := conn.WithContext(dbc.Ctx).Table(t.Table).
		Where("id = ? AND status IN ?", t.ID, t.From).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}
