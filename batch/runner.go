/*
Package batch runs one maturity calculation end to end.

PURPOSE:
  The caller side of the engine: fetch base records, value them, write the
  results document and hand back both the derived records and whether the
  export succeeded. Used by the CLI and the HTTP API alike.

RUN FLOW:
  1. Source.BaseRecords      (upstream failure => error, nothing exported)
  2. maturity.ProcessAll     (never fails)
  3. Exporter.Export         (failure => Result.Exported=false + error)

  An export failure still returns the Result so the presentation layer can
  show the calculated values next to the failed export.

NO RETRIES:
  A run is a one-shot batch. Retrying is the caller's decision.
*/
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/warp/maturity-engine/export"
	"github.com/warp/maturity-engine/maturity"
	"github.com/warp/maturity-engine/metrics"
)

// Result is the outcome of one run.
type Result struct {
	RunID      string
	Records    []maturity.Record
	Exported   bool
	ExportPath string
	StartedAt  time.Time
	Duration   time.Duration
}

// Runner wires a source and an exporter together.
type Runner struct {
	Source   maturity.Source
	Exporter export.Exporter

	// OutputDir and OutputFile are combined into the export path.
	OutputDir  string
	OutputFile string

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// NewRunner returns a Runner exporting XML to dir/filename.
func NewRunner(src maturity.Source, dir, filename string, logger *slog.Logger, m *metrics.Metrics) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		Source:     src,
		Exporter:   export.NewXMLExporter(),
		OutputDir:  dir,
		OutputFile: filename,
		Logger:     logger,
		Metrics:    m,
	}
}

// Calculate fetches and values records without exporting them.
func (r *Runner) Calculate(ctx context.Context) ([]maturity.Record, error) {
	base, err := maturity.Load(ctx, r.Source)
	if err != nil {
		return nil, err
	}
	return maturity.ProcessAll(base), nil
}

// Run performs a full fetch, calculate and export cycle.
//
// The returned Result is nil only when records could not be fetched.
// When the export fails the Result is still returned, with Exported=false,
// together with the *export.ExportError.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString(), StartedAt: start}
	log := r.logger().With("run_id", res.RunID)

	records, err := r.Calculate(ctx)
	if err != nil {
		log.Error("failed to load policy records", "error", err)
		r.Metrics.ObserveRun(start, metrics.OutcomeSourceError, 0)
		return nil, fmt.Errorf("run %s: %w", res.RunID, err)
	}
	res.Records = records
	log.Debug("calculated maturity values", "records", len(records))

	path, err := export.Path(r.OutputDir, r.OutputFile)
	if err == nil {
		res.ExportPath = path
		err = r.exporter().Export(records, path)
	}
	res.Duration = time.Since(start)

	if err != nil {
		log.Error("failed to export results", "path", path, "error", err)
		r.Metrics.ObserveRun(start, metrics.OutcomeExportFailed, len(records))
		return res, fmt.Errorf("run %s: %w", res.RunID, err)
	}

	res.Exported = true
	log.Info("maturity run complete",
		"records", len(records),
		"path", path,
		"duration", res.Duration,
	)
	r.Metrics.ObserveRun(start, metrics.OutcomeSuccess, len(records))
	return res, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Runner) exporter() export.Exporter {
	if r.Exporter == nil {
		return export.NewXMLExporter()
	}
	return r.Exporter
}
