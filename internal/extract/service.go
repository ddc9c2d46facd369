// Package extract orchestrates the extraction pipeline: text acquisition,
// candidate detection, per-field validation, and record aggregation. It is
// the only surface the serving layers call.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/docfield/docfield/internal/detect"
	"github.com/docfield/docfield/internal/entity"
	"github.com/docfield/docfield/internal/field"
	"github.com/docfield/docfield/internal/pdftext"
	"github.com/docfield/docfield/internal/record"
	"github.com/docfield/docfield/internal/validate"
)

// Service runs the extraction pipeline over uploaded documents.
type Service struct {
	acquirer   *pdftext.Acquirer
	detector   *detect.Detector
	validator  *validate.Validator
	aggregator *record.Aggregator
	logger     *slog.Logger
	workers    int
}

// Options configures a Service.
type Options struct {
	// MaxFileSize bounds accepted PDF byte streams; zero means unlimited.
	MaxFileSize int64
	// Region is the default phone region for numbers without country code.
	Region string
	// YearPivot resolves two-digit years (< pivot is 20xx).
	YearPivot int
	// SearchTerm, when set, adds literal search hits as `other` fields.
	SearchTerm string
	// Workers bounds batch parallelism; zero means GOMAXPROCS.
	Workers int
	// Diagnostics observes rejected candidates (testing hook).
	Diagnostics validate.Diagnostics
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewService wires the pipeline components. The entity recognizer must
// have been loaded (entity.Load) beforehand.
func NewService(recognizer entity.Recognizer, opts Options) (*Service, error) {
	if recognizer == nil {
		return nil, fmt.Errorf("recognizer cannot be nil")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var detectOpts []detect.Option
	if opts.SearchTerm != "" {
		detectOpts = append(detectOpts, detect.WithSearchTerm(opts.SearchTerm))
	}

	return &Service{
		acquirer: pdftext.NewAcquirer(opts.MaxFileSize),
		detector: detect.NewDetector(recognizer, detectOpts...),
		validator: validate.NewValidator(
			validate.WithRegion(opts.Region),
			validate.WithYearPivot(opts.YearPivot),
			validate.WithDiagnostics(opts.Diagnostics),
		),
		aggregator: record.NewAggregator(),
		logger:     logger,
		workers:    workers,
	}, nil
}

// ProcessDocument runs the full pipeline on one document. The chain is
// strictly sequential with no suspension points; the only document-fatal
// failure is an unreadable byte stream (field.ErrUnreadablePDF).
func (s *Service) ProcessDocument(ctx context.Context, filename string, data []byte) (field.Record, error) {
	docID := documentID(filename)

	pages, err := s.acquirer.Acquire(data)
	if err != nil {
		s.logger.WarnContext(ctx, "document unreadable",
			"document", docID, "error", err)
		return s.aggregator.FailedRecord(docID, err), err
	}

	candidates, err := s.detector.Detect(pages)
	if err != nil {
		// Recognizer failures degrade the document, not the process.
		s.logger.WarnContext(ctx, "entity detection failed",
			"document", docID, "error", err)
		return s.aggregator.FailedRecord(docID, err), err
	}

	validated := make([]field.Validated, 0, len(candidates))
	for _, c := range candidates {
		vf, ok, err := s.validator.Validate(c)
		if err != nil {
			return s.aggregator.FailedRecord(docID, err), err
		}
		if ok {
			validated = append(validated, vf)
		}
	}

	rec := s.aggregator.Aggregate(docID, validated)
	s.logger.DebugContext(ctx, "document processed",
		"document", docID,
		"pages", len(pages),
		"candidates", len(candidates),
		"fields", rec.FieldCount(),
	)
	return rec, nil
}

// ProcessBatch processes independent documents with bounded parallelism.
// It never fails wholesale: one document's unreadable bytes become an
// error-marked record at that document's position, and the result set
// preserves upload order regardless of completion order. A canceled
// context marks unfinished documents failed without affecting siblings
// that already completed.
func (s *Service) ProcessBatch(ctx context.Context, uploads []field.Upload) field.ResultSet {
	records := make([]field.Record, len(uploads))

	var g errgroup.Group
	g.SetLimit(s.workers)

	for i, up := range uploads {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				records[i] = s.aggregator.FailedRecord(
					documentID(up.Filename),
					fmt.Errorf("document abandoned: %w", err),
				)
				return nil
			}

			// ProcessDocument returns an error-marked record for every
			// failure mode, with the document id already assigned.
			rec, _ := s.ProcessDocument(ctx, up.Filename, up.Data)
			records[i] = rec
			return nil
		})
	}

	// Worker funcs always return nil; Wait only fences completion.
	_ = g.Wait()

	return s.aggregator.AggregateBatch(records)
}

// documentID returns the display identifier for a document: the original
// filename, or a generated id when the caller supplied none.
func documentID(filename string) string {
	if filename != "" {
		return filename
	}
	return "document-" + uuid.NewString()
}
