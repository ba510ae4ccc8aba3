package data

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/repo"
	"github.com/radardiario/radar-bridge/internal/conf"
	"github.com/radardiario/radar-bridge/internal/infra/feishu"
)

// Repositories contains all repositories
type Repositories struct {
	Message repo.MessageRepo
	Demand  repo.DemandRepo
	Ledger  repo.LedgerRepo
}

// NewRepositories creates all repositories.
// feishuClient may be nil for tools that never send messages.
func NewRepositories(ctx context.Context, cfg *conf.Config, feishuClient *feishu.Client, loc *time.Location) (*Repositories, error) {
	demandRepo, err := NewDemandRepo(ctx, cfg, loc)
	if err != nil {
		return nil, err
	}

	ledgerRepo, err := NewLedgerRepo(cfg.Store.DBPath)
	if err != nil {
		return nil, err
	}

	repos := &Repositories{
		Demand: demandRepo,
		Ledger: ledgerRepo,
	}
	if feishuClient != nil {
		repos.Message = NewFeishuRepo(feishuClient)
	}
	return repos, nil
}

// NewDemandRepo creates the demand store selected by configuration
func NewDemandRepo(ctx context.Context, cfg *conf.Config, loc *time.Location) (repo.DemandRepo, error) {
	switch cfg.Store.Backend {
	case conf.StoreSheets:
		return NewSheetsDemandRepo(ctx, SheetsConfig{
			ClientEmail: cfg.Google.ClientEmail,
			PrivateKey:  cfg.Google.PrivateKey,
			SheetID:     cfg.Google.SheetID,
			SheetTab:    cfg.Google.SheetTab,
			Location:    loc,
		})
	case conf.StoreSQLite:
		return NewSQLiteDemandRepo(cfg.Store.DBPath)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

// Close releases repository resources
func (r *Repositories) Close() error {
	var firstErr error
	if c, ok := r.Demand.(io.Closer); ok {
		firstErr = c.Close()
	}
	if r.Ledger != nil {
		if err := r.Ledger.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
