package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/regimen/internal/db"
	"github.com/alexanderramin/regimen/internal/importer"
	"github.com/alexanderramin/regimen/internal/repository"
)

// ImportResult summarises a legacy progress import.
type ImportResult struct {
	Days     int
	Sets     int
	Keys     int
	Sessions map[string]int
}

type ImportService interface {
	ImportProgress(ctx context.Context, path string) (*ImportResult, error)
	ImportProgressFile(ctx context.Context, pf importer.ProgressFile) (*ImportResult, error)
}

type importService struct {
	resolver importer.Resolver
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(resolver importer.Resolver, uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{resolver: resolver, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportProgress(ctx context.Context, path string) (*ImportResult, error) {
	pf, err := importer.LoadProgressFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportProgressFile(ctx, pf)
}

// ImportProgressFile merges every set into the stored completions inside
// one transaction; nothing is written if any set fails.
func (s *importService) ImportProgressFile(ctx context.Context, pf importer.ProgressFile) (result *ImportResult, err error) {
	startedAt := time.Now()
	defer func() {
		fields := map[string]any{}
		if result != nil {
			fields["sets"] = result.Sets
			fields["keys"] = result.Keys
		}
		observe(ctx, s.observer, "import-progress", "", startedAt, err, fields)
	}()

	if errs := importer.ValidateProgress(pf); len(errs) > 0 {
		return nil, fmt.Errorf("invalid progress file: %w", errors.Join(errs...))
	}
	sets, err := importer.Convert(pf, s.resolver)
	if err != nil {
		return nil, fmt.Errorf("converting progress file: %w", err)
	}

	result = &ImportResult{Sessions: make(map[string]int)}
	days := make(map[string]bool)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteCompletionRepo(tx)
		for _, set := range sets {
			existing, err := repo.Load(ctx, set.Date, set.SessionType)
			if err != nil {
				return err
			}
			merged := unionKeys(existing, set.Keys)
			if err := repo.Save(ctx, set.Date, set.SessionType, merged); err != nil {
				return fmt.Errorf("saving %s %s: %w", set.Date, set.SessionType, err)
			}
			days[set.Date] = true
			result.Sets++
			result.Keys += len(set.Keys)
			result.Sessions[string(set.SessionType)] += len(set.Keys)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Days = len(days)
	return result, nil
}
