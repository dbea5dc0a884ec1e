package http

import (
	"context"

	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmehdipour/invest-backoffice/internal/repository"
	"github.com/jmehdipour/invest-backoffice/internal/service/transition"
	"github.com/jmoiron/sqlx"
)

// TransitionService is satisfied by *transition.Engine.
type TransitionService interface {
	TransitionInvestment(ctx context.Context, id, status, comment, actor string) (transition.Result, error)
	TransitionWithdrawal(ctx context.Context, id, status, comment, actor string) (transition.Result, error)
}

type AdminFinder interface {
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	GetByID(ctx context.Context, id int64) (*model.Admin, error)
}

type CustomerReader interface {
	GetByUsername(ctx context.Context, tx *sqlx.Tx, username string, forUpdate bool) (*model.Customer, error)
	List(ctx context.Context, limit, offset int) ([]model.Customer, error)
}

type InvestmentReader interface {
	Get(ctx context.Context, id string) (*model.Investment, error)
	List(ctx context.Context, status model.InvestmentStatus, limit, offset int) ([]model.Investment, error)
}

type WithdrawalReader interface {
	Get(ctx context.Context, id string) (*model.Withdrawal, error)
	List(ctx context.Context, status model.WithdrawalStatus, limit, offset int) ([]model.Withdrawal, error)
}

type LedgerReader interface {
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]model.LedgerEntry, error)
}

var (
	_ TransitionService = (*transition.Engine)(nil)
	_ AdminFinder       = (*repository.AdminsRepositoryImpl)(nil)
	_ CustomerReader    = (*repository.CustomersRepositoryImpl)(nil)
	_ InvestmentReader  = (*repository.InvestmentsRepositoryImpl)(nil)
	_ WithdrawalReader  = (*repository.WithdrawalsRepositoryImpl)(nil)
	_ LedgerReader      = repository.LedgerRepository(nil)
)
