package importer

import (
	"context"
	"errors"
	"strings"

	"guest-manager/core/config"
	"guest-manager/feature/guest/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrConfirmationRequired fails a destructive run before any row is
// processed: SYNC and REPLACE delete data and demand the exact phrase.
var ErrConfirmationRequired = errors.New(`destructive mode requires confirmation "` + ConfirmPhrase + `"`)

// Options controls one import run.
type Options struct {
	Mode        Mode
	DryRun      bool
	ConfirmText string
}

// Service runs bulk guest imports.
type Service struct {
	db          *gorm.DB
	logger      *zap.Logger
	archiver    *Archiver // nil when object storage is not configured
	defaultLang models.Language
}

// NewService creates a new import service. archiver may be nil.
func NewService(db *gorm.DB, log *zap.Logger, archiver *Archiver, event config.EventConfig) *Service {
	return &Service{
		db:          db,
		logger:      log,
		archiver:    archiver,
		defaultLang: models.ParseLanguage(event.DefaultLanguage, models.LanguageEN),
	}
}

// Run imports a tabular file against the guest store under the given mode.
//
// The pipeline is: destructive gate, decode, per-row validation, planning
// against one store snapshot, then application inside a single transaction.
// A dry run stops after planning and returns the same report a committed run
// would produce, with zero store mutations.
//
// Row-level problems land in the report, never in the returned error; the
// error is reserved for operation-level failures (bad confirmation,
// undecodable input, transaction failure).
func (s *Service) Run(ctx context.Context, data []byte, opts Options) (*Report, error) {
	if opts.Mode.Destructive() && strings.TrimSpace(opts.ConfirmText) != ConfirmPhrase {
		return nil, ErrConfirmationRequired
	}

	records, err := decodeTable(data)
	if err != nil {
		return nil, err
	}

	report := &Report{Mode: opts.Mode, DryRun: opts.DryRun, Errors: []RowError{}}
	rows := validateRows(records, s.defaultLang, report)
	addOnly := opts.Mode == ModeAddOnly || opts.Mode == ModeReplace

	if opts.DryRun {
		idx, err := s.planningIndex(ctx, s.db, opts.Mode)
		if err != nil {
			return nil, err
		}
		plan(rows, idx, addOnly, report)
		return report, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Mode == ModeReplace {
			if err := s.wipeAll(ctx, tx); err != nil {
				return err
			}
		}

		idx, err := s.planningIndex(ctx, tx, opts.Mode)
		if err != nil {
			return err
		}
		ops := plan(rows, idx, addOnly, report)
		if err := s.apply(ctx, tx, ops, idx, report); err != nil {
			return err
		}

		if opts.Mode == ModeSync {
			deleted, err := s.deleteAbsent(ctx, tx, rows)
			if err != nil {
				return err
			}
			s.logger.Info("sync removed absent guests", zap.Int("deleted", deleted))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("import committed",
		zap.String("mode", string(opts.Mode)),
		zap.Int("created", report.CreatedCount),
		zap.Int("updated", report.UpdatedCount),
		zap.Int("skipped", report.SkippedCount),
		zap.Int("rejected", report.RejectedCount),
	)

	if s.archiver != nil {
		// Audit archive is best effort; a storage hiccup never fails the run.
		s.archiver.Store(ctx, data, report)
	}
	return report, nil
}

// planningIndex returns the snapshot the planner works against. REPLACE plans
// against an empty store: everything that existed is gone by the time rows
// apply.
func (s *Service) planningIndex(ctx context.Context, db *gorm.DB, mode Mode) (*recordIndex, error) {
	if mode == ModeReplace {
		return &recordIndex{
			codeToID:  make(map[string]uint),
			phoneToID: make(map[string]uint),
			emailToID: make(map[string]uint),
		}, nil
	}
	return buildIndex(ctx, db)
}
