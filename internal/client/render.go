package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mitchellh/go-wordwrap"
	"github.com/olekukonko/tablewriter"

	"github.com/BerylCAtieno/legalease/internal/models"
)

const textWidth = 78

// RenderAnalysis writes a plain-text report of an analysis. Empty sections
// are omitted.
func RenderAnalysis(w io.Writer, resp *models.AnalysisResponse) error {
	p := &printer{w: w}

	meta := resp.Metadata
	if meta.FileName != "" {
		p.linef("%s (%s, %s)", meta.FileName, humanize.IBytes(uint64(max(meta.FileSize, 0))), meta.MimeType)
		when := ""
		if !meta.ProcessingTime.IsZero() {
			when = " " + humanize.Time(meta.ProcessingTime)
		}
		p.linef("Analyzed%s by %s, %s characters of text", when, providerLabel(meta), humanize.Comma(int64(meta.TextLength)))
		p.blank()
	}

	renderAnalysisBody(p, &resp.DocumentAnalysis)
	return p.err
}

// RenderTestAI writes the result of a test-ai call.
func RenderTestAI(w io.Writer, resp *models.TestAIResponse) error {
	p := &printer{w: w}
	p.line(resp.Message)
	p.blank()
	renderAnalysisBody(p, &resp.DocumentAnalysis)
	return p.err
}

// RenderHealth writes a one-line health summary.
func RenderHealth(w io.Writer, resp *models.HealthResponse) error {
	p := &printer{w: w}
	p.linef("status %s, version %s, server time %s", resp.Status, resp.Version, resp.Timestamp.Format("2006-01-02 15:04:05 MST"))
	return p.err
}

// RenderStatus writes a single status transition line.
func RenderStatus(w io.Writer, s UploadStatus) {
	switch s := s.(type) {
	case StatusPending:
		fmt.Fprintf(w, "%s: pending\n", s.FileName)
	case StatusUploading:
		fmt.Fprintf(w, "%s: uploading %d%%\n", s.FileName, s.Progress)
	case StatusSucceeded:
		fmt.Fprintf(w, "%s: done\n", s.FileName)
	case StatusFailed:
		fmt.Fprintf(w, "%s: failed: %v\n", s.FileName, s.Err)
	}
}

func renderAnalysisBody(p *printer, a *models.DocumentAnalysis) {
	if a.DocumentType != "" {
		p.line(strings.ToUpper(a.DocumentType))
		p.line(strings.Repeat("=", min(len(a.DocumentType), textWidth)))
	}
	p.linef("Complexity: %s   Risk level: %s", a.Complexity, a.RiskLevel)
	p.blank()

	p.section("Summary", a.Summary)
	p.section("What it means", a.WhatItMeans)
	p.list("Key points", a.KeyPoints)

	if len(a.PotentialRisks) > 0 {
		p.line("Potential risks")
		p.risks(a.PotentialRisks)
		p.blank()
	}

	p.list("Red flags", a.RedFlags)
	p.list("Your rights", a.YourRights)
	p.list("Your obligations", a.YourObligations)
	p.list("Before signing", a.BeforeSigning)
	p.section("Overall assessment", a.OverallAssessment)
}

func providerLabel(meta models.AnalysisMetadata) string {
	if !meta.AIEnabled || meta.AIProvider == "" {
		return "mock analysis"
	}
	return meta.AIProvider
}

// printer remembers the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) line(s string) { p.write(s + "\n") }

func (p *printer) linef(format string, args ...any) { p.line(fmt.Sprintf(format, args...)) }

func (p *printer) blank() { p.write("\n") }

func (p *printer) section(title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	p.line(title)
	p.line(indent(wordwrap.WrapString(body, textWidth-2), "  "))
	p.blank()
}

func (p *printer) list(title string, items []string) {
	if len(items) == 0 {
		return
	}
	p.line(title)
	for _, item := range items {
		wrapped := wordwrap.WrapString(item, textWidth-4)
		p.line("  - " + strings.ReplaceAll(wrapped, "\n", "\n    "))
	}
	p.blank()
}

func (p *printer) risks(risks []models.Risk) {
	if p.err != nil {
		return
	}
	table := tablewriter.NewWriter(p.w)
	table.SetHeader([]string{"Risk", "Impact", "Advice"})
	table.SetAutoWrapText(true)
	table.SetColWidth(28)
	table.SetRowLine(true)
	for _, r := range risks {
		table.Append([]string{r.Risk, r.Impact, r.Advice})
	}
	table.Render()
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
