package customer

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/edutainment-backend/internal/data/aggregates"
	types "github.com/yungbote/edutainment-backend/internal/domain"
	"github.com/yungbote/edutainment-backend/internal/platform/dbctx"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

type CustomerSessionRepo interface {
	GetOrCreate(dbc dbctx.Context, candidate *types.CustomerSession) (*types.CustomerSession, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CustomerSession, error)
}

type customerSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomerSessionRepo(db *gorm.DB, baseLog *logger.Logger) CustomerSessionRepo {
	return &customerSessionRepo{db: db, log: baseLog.With("repo", "CustomerSessionRepo")}
}

func (r *customerSessionRepo) GetOrCreate(dbc dbctx.Context, candidate *types.CustomerSession) (*types.CustomerSession, error) {
	if candidate != nil && candidate.CustomerID == uuid.Nil {
		return nil, aggregates.ValidationError("session requires a customer id")
	}
	row, outcome, err := aggregates.GetOrCreate(dbc, r.db, candidate)
	if err != nil {
		return nil, err
	}
	if outcome == aggregates.Recovered {
		r.log.Info("session insert raced, recovered existing row", "session_id", row.ID)
	}
	return row, nil
}

func (r *customerSessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CustomerSession, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.CustomerSession
	err := dbc.DB(r.db).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
