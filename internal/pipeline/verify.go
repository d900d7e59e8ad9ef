package pipeline

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"

	"chipgen/internal/fileutil"
	"chipgen/internal/logging"
	"chipgen/internal/manifest"
)

// VerifyStatus is the outcome for one manifest row.
type VerifyStatus string

const (
	VerifyOK       VerifyStatus = "ok"
	VerifyMismatch VerifyStatus = "mismatch"
	VerifyMissing  VerifyStatus = "missing"
)

// VerifyOptions configures Verify.
type VerifyOptions struct {
	Manifest   string
	OutputRoot string
	HashColumn string
	Logger     *slog.Logger
}

// VerifyResult compares one recorded digest with the file on disk.
type VerifyResult struct {
	Row      int
	Team     string
	Path     string
	Expected string
	Actual   string
	Status   VerifyStatus
}

// VerifyReport aggregates the results of a Verify call.
type VerifyReport struct {
	Results    []VerifyResult
	OK         int
	Mismatched int
	Missing    int
}

// Passed reports whether every file matched its recorded digest.
func (r *VerifyReport) Passed() bool {
	return r.Mismatched == 0 && r.Missing == 0
}

// Verify replays the team grouping of a manifest, re-hashes each metadata
// file under OutputRoot and compares it with the recorded digest.
func Verify(ctx context.Context, opts VerifyOptions) (*VerifyReport, error) {
	if opts.HashColumn == "" {
		opts.HashColumn = DefaultHashColumn
	}
	logger := logging.NewComponentLogger(opts.Logger, "verify")

	reader, err := manifest.Open(opts.Manifest, opts.HashColumn)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	report := &VerifyReport{}
	var state State
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		state, _, err = Advance(state, row.Entry.TeamName, row.Number)
		if err != nil {
			return nil, err
		}
		teamDir, err := componentPath(opts.OutputRoot, state.Team)
		if err != nil {
			return nil, err
		}
		path, err := componentPath(teamDir, row.Entry.Filename+metadataExt)
		if err != nil {
			return nil, err
		}

		result := VerifyResult{
			Row:      row.Number,
			Team:     state.Team,
			Path:     path,
			Expected: row.Fields[opts.HashColumn],
		}
		actual, err := fileutil.HashFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			result.Status = VerifyMissing
			report.Missing++
		case err != nil:
			return nil, err
		case actual != result.Expected:
			result.Actual = actual
			result.Status = VerifyMismatch
			report.Mismatched++
		default:
			result.Actual = actual
			result.Status = VerifyOK
			report.OK++
		}
		if result.Status != VerifyOK {
			logger.Warn("metadata file does not match manifest",
				logging.String(logging.FieldTeam, result.Team),
				logging.Int(logging.FieldRow, result.Row),
				logging.String("status", string(result.Status)),
				logging.String("file", path),
			)
		}
		report.Results = append(report.Results, result)
	}
	return report, nil
}
