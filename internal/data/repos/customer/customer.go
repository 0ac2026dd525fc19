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

type CustomerRepo interface {
	GetOrCreate(dbc dbctx.Context, candidate *types.Customer) (*types.Customer, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Customer, error)
	SetYearOfBirth(dbc dbctx.Context, id uuid.UUID, year *int) error
}

type customerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomerRepo(db *gorm.DB, baseLog *logger.Logger) CustomerRepo {
	return &customerRepo{db: db, log: baseLog.With("repo", "CustomerRepo")}
}

func (r *customerRepo) GetOrCreate(dbc dbctx.Context, candidate *types.Customer) (*types.Customer, error) {
	row, outcome, err := aggregates.GetOrCreate(dbc, r.db, candidate)
	if err != nil {
		return nil, err
	}
	if outcome == aggregates.Recovered {
		r.log.Info("customer insert raced, recovered existing row", "customer_id", row.ID)
	}
	return row, nil
}

func (r *customerRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Customer, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Customer
	err := dbc.DB(r.db).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetYearOfBirth overwrites the stored birth year; nil clears it.
func (r *customerRepo) SetYearOfBirth(dbc dbctx.Context, id uuid.UUID, year *int) error {
	if id == uuid.Nil {
		return aggregates.ValidationError("customer id required")
	}
	res := dbc.DB(r.db).Model(&types.Customer{}).
		Where("id = ?", id).
		Update("year_of_birth", year)
	if res.Error != nil {
		return aggregates.MapError("set year_of_birth", res.Error)
	}
	if res.RowsAffected == 0 {
		return aggregates.MapError("set year_of_birth", gorm.ErrRecordNotFound)
	}
	return nil
}
