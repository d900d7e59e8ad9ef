package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"chipgen/internal/fileutil"
	"chipgen/internal/logging"
	"chipgen/internal/manifest"
	"chipgen/internal/metadata"
)

const (
	// DefaultHashColumn is the manifest column holding each file's digest.
	DefaultHashColumn = "Sha256 hash"
	// DefaultManifestSuffix is appended to the input stem to name the manifest.
	DefaultManifestSuffix = ".output.csv"

	metadataExt = ".json"
)

// Options configures a generate run.
type Options struct {
	Input      string
	OutputRoot string
	// Manifest defaults to manifest.OutputPath(Input, ManifestSuffix).
	Manifest       string
	ManifestSuffix string
	HashColumn     string
	Collection     metadata.Collection
	JSONIndent     string
	JSONStyle      metadata.Style
	Logger         *slog.Logger
	// Recorder is optional; when set it receives the run and every artifact.
	Recorder Recorder
}

// RunInfo describes a run as it starts.
type RunInfo struct {
	ID         string
	Input      string
	Manifest   string
	OutputRoot string
	Total      int
	StartedAt  time.Time
}

// Artifact is one generated metadata file.
type Artifact struct {
	Row      int
	Team     string
	Filename string
	Path     string
	Digest   string
}

// Recorder persists run history.
type Recorder interface {
	BeginRun(ctx context.Context, run RunInfo) error
	RecordArtifact(ctx context.Context, runID string, artifact Artifact) error
	FinishRun(ctx context.Context, runID string, rows int, runErr error) error
}

// TeamSummary counts the files generated for one team group.
type TeamSummary struct {
	Name  string
	Dir   string
	Files int
}

// Summary reports what a run produced.
type Summary struct {
	RunID      string
	Input      string
	Manifest   string
	OutputRoot string
	Total      int
	Rows       int
	// Dropped counts attribute segments skipped for lacking a ':' separator.
	Dropped int
	Teams   []TeamSummary
}

func (o *Options) applyDefaults() error {
	if o.Input == "" {
		return errors.New("input csv path is required")
	}
	if o.OutputRoot == "" {
		return errors.New("output root is required")
	}
	if o.ManifestSuffix == "" {
		o.ManifestSuffix = DefaultManifestSuffix
	}
	if o.Manifest == "" {
		o.Manifest = manifest.OutputPath(o.Input, o.ManifestSuffix)
	}
	if o.HashColumn == "" {
		o.HashColumn = DefaultHashColumn
	}
	if o.Collection == (metadata.Collection{}) {
		o.Collection = metadata.DefaultCollection()
	}
	if o.Logger == nil {
		o.Logger = logging.NewNop()
	}
	return nil
}

// Run executes a full generate pass over opts.Input. Any error aborts the run;
// files written before the failure are left in place.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	if err := opts.applyDefaults(); err != nil {
		return nil, err
	}

	if err := checkManifestPath(opts.Manifest, opts.Input); err != nil {
		return nil, err
	}
	if err := CheckOutputRoot(opts.OutputRoot, opts.Input, opts.Manifest); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx = logging.ContextWithRunID(ctx, runID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "pipeline"))

	total, err := manifest.SeriesTotal(opts.Input)
	if err != nil {
		return nil, err
	}

	lock, err := lockOutputRoot(opts.OutputRoot)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if err := PrepareOutputRoot(opts.OutputRoot); err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:      runID,
		Input:      opts.Input,
		Manifest:   opts.Manifest,
		OutputRoot: opts.OutputRoot,
		Total:      total,
	}

	if opts.Recorder != nil {
		info := RunInfo{
			ID:         runID,
			Input:      opts.Input,
			Manifest:   opts.Manifest,
			OutputRoot: opts.OutputRoot,
			Total:      total,
			StartedAt:  time.Now().UTC(),
		}
		if err := opts.Recorder.BeginRun(ctx, info); err != nil {
			return nil, fmt.Errorf("record run start: %w", err)
		}
	}

	logger.Info("generate started",
		logging.String("input", opts.Input),
		logging.String("output_root", opts.OutputRoot),
		logging.Int("series_total", total),
	)

	runErr := generate(ctx, opts, total, summary, logger)

	if opts.Recorder != nil {
		if err := opts.Recorder.FinishRun(ctx, runID, summary.Rows, runErr); err != nil && runErr == nil {
			runErr = fmt.Errorf("record run finish: %w", err)
		}
	}
	if runErr != nil {
		return summary, runErr
	}

	if summary.Dropped > 0 {
		logger.Warn("attribute segments without ':' were skipped",
			logging.Int("dropped", summary.Dropped),
			logging.String(logging.FieldEventType, "attributes_dropped"),
		)
	}
	logger.Info("generate completed",
		logging.Int("rows", summary.Rows),
		logging.Int("teams", len(summary.Teams)),
		logging.String("manifest", opts.Manifest),
	)
	return summary, nil
}

func generate(ctx context.Context, opts Options, total int, summary *Summary, logger *slog.Logger) error {
	reader, err := manifest.Open(opts.Input)
	if err != nil {
		return err
	}
	defer reader.Close()

	writer, err := manifest.Create(opts.Manifest, reader.Header(), opts.HashColumn)
	if err != nil {
		return err
	}
	// Close is idempotent; the explicit call at the end reports flush errors.
	defer writer.Close()

	mapper := metadata.NewMapper(opts.Collection)
	var (
		state   State
		teamDir string
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		next, started, err := Advance(state, row.Entry.TeamName, row.Number)
		if err != nil {
			return err
		}
		state = next
		if started {
			if teamDir, err = openTeamDir(opts.OutputRoot, state.Team); err != nil {
				return err
			}
			summary.Teams = append(summary.Teams, TeamSummary{Name: state.Team, Dir: teamDir})
			logger.Info("team started", logging.String(logging.FieldTeam, state.Team), logging.Int(logging.FieldRow, row.Number))
		}

		artifact, dropped, err := writeArtifact(mapper, opts, teamDir, state.Team, row, total)
		if err != nil {
			return err
		}
		if err := writer.Write(row.Record, artifact.Digest); err != nil {
			return err
		}
		if opts.Recorder != nil {
			if err := opts.Recorder.RecordArtifact(ctx, summary.RunID, artifact); err != nil {
				return fmt.Errorf("record artifact row %d: %w", row.Number, err)
			}
		}

		summary.Rows++
		summary.Dropped += dropped
		summary.Teams[len(summary.Teams)-1].Files++
		logger.Debug("metadata written",
			logging.String(logging.FieldTeam, state.Team),
			logging.Int(logging.FieldRow, row.Number),
			logging.String("file", artifact.Path),
			logging.String("sha256", artifact.Digest),
			logging.Int("dropped_segments", dropped),
		)
	}

	return writer.Close()
}

func openTeamDir(root, team string) (string, error) {
	dir, err := componentPath(root, team)
	if err != nil {
		return "", fmt.Errorf("team %q: %w", team, err)
	}
	// Repeated team names reuse the existing directory.
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create team directory: %w", err)
	}
	return dir, nil
}

func writeArtifact(mapper *metadata.Mapper, opts Options, teamDir, team string, row manifest.Row, total int) (Artifact, int, error) {
	rec, dropped, err := mapper.MapWithDiagnostics(team, row.Fields, total)
	if err != nil {
		return Artifact{}, 0, fmt.Errorf("row %d: %w", row.Number, err)
	}
	data, err := metadata.EncodeStyle(rec, opts.JSONIndent, opts.JSONStyle)
	if err != nil {
		return Artifact{}, 0, fmt.Errorf("row %d: %w", row.Number, err)
	}

	path, err := componentPath(teamDir, row.Entry.Filename+metadataExt)
	if err != nil {
		return Artifact{}, 0, fmt.Errorf("row %d filename: %w", row.Number, err)
	}
	if err := fileutil.WriteFile(path, data, 0o644); err != nil {
		return Artifact{}, 0, fmt.Errorf("row %d: write metadata: %w", row.Number, err)
	}

	digest, err := fileutil.HashFile(path)
	if err != nil {
		return Artifact{}, 0, fmt.Errorf("row %d: %w", row.Number, err)
	}

	return Artifact{
		Row:      row.Number,
		Team:     team,
		Filename: row.Entry.Filename,
		Path:     filepath.Clean(path),
		Digest:   digest,
	}, dropped, nil
}
