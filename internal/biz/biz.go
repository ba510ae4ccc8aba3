package biz

import (
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/parser"
	"github.com/radardiario/radar-bridge/internal/biz/repo"
	"github.com/radardiario/radar-bridge/internal/biz/usecase"
)

// Usecases contains all usecases
type Usecases struct {
	Intake *usecase.IntakeUsecase
	Query  *usecase.QueryUsecase
	Digest *usecase.DigestUsecase
}

// NewUsecases wires the usecases over the given repositories.
// "Today" for queries is computed in the parser's zone.
func NewUsecases(p *parser.Parser, demandRepo repo.DemandRepo, ledgerRepo repo.LedgerRepo) *Usecases {
	query := usecase.NewQueryUsecase(demandRepo, p.Location())
	return &Usecases{
		Intake: usecase.NewIntakeUsecase(p, demandRepo, ledgerRepo),
		Query:  query,
		Digest: usecase.NewDigestUsecase(query),
	}
}

// SetClock overrides the time source of every usecase
func (u *Usecases) SetClock(now func() time.Time) {
	u.Intake.SetClock(now)
	u.Query.SetClock(now)
}
