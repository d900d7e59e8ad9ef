package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"

	"chipgen/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Manifest", statusError, "not written", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Manifest:", "[ERROR] not written")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Files", statusOK, "2", true)
	plain := renderStatusLine("Files", statusOK, "2", false)
	if want := (text.Colors{text.FgGreen}).Sprint(plain); got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestPreflightLines(t *testing.T) {
	lines := preflightLines([]preflight.Result{
		{Name: "Input CSV", Passed: true, Detail: "nfts.csv (read ok)"},
		{Name: "Output root", Detail: "/ (error: insufficient permissions)"},
	}, false)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[OK] nfts.csv") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR] /") {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]tableColumn{leftColumn("Team"), rightColumn("Files")}, [][]string{{"Alpha"}})
	if !strings.Contains(out, "Alpha") || !strings.Contains(out, "Files") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if strings.Contains(out, "FILES") {
		t.Fatalf("expected header case preserved:\n%s", out)
	}
	if renderTable(nil, nil) != "" {
		t.Fatal("expected empty table for no headers")
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
