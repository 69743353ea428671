package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"reqlock/internal/ports"
	"reqlock/internal/types"
)

// Artifact filenames written under the output directory.
const (
	LockFileName             = "requirements.lock"
	ResolutionReportFileName = "resolution.report"
	EvaluationReportFileName = "evaluation.report"
	DebianExportFileName     = "debian.export"
)

// OutputFileAdapter writes lock artifacts under a single output
// directory, creating it on first write.
type OutputFileAdapter struct {
	OutputDir string
}

func NewOutputFileAdapter(outputDir string) OutputFileAdapter {
	return OutputFileAdapter{OutputDir: outputDir}
}

func (a OutputFileAdapter) WriteLock(entries []types.LockEntry) error {
	var builder strings.Builder
	builder.WriteString("# locked requirements, generated by reqlock\n")
	for _, entry := range entries {
		builder.WriteString(entry.Package)
		builder.WriteString("==")
		builder.WriteString(entry.Version)
		if entry.Marker != "" {
			builder.WriteString(" ; ")
			builder.WriteString(entry.Marker)
		}
		builder.WriteString("\n")
	}
	return a.writeFile(LockFileName, builder.String())
}

func (a OutputFileAdapter) WriteResolutionReport(report types.ResolutionReport) error {
	lines := make([]string, 0, len(report.Records))
	for _, record := range report.Records {
		line := fmt.Sprintf("dependency=%s action=%s", record.Dependency, record.Action)
		if record.Value != "" {
			line += fmt.Sprintf(" value=%s", record.Value)
		}
		if record.Reason != "" {
			line += fmt.Sprintf(" reason=%q", record.Reason)
		}
		if record.Owner != "" {
			line += fmt.Sprintf(" owner=%s", record.Owner)
		}
		if record.ExpiresAt != "" {
			line += fmt.Sprintf(" expires_at=%s", record.ExpiresAt)
		}
		lines = append(lines, line)
	}
	sort.Strings(lines)
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	return a.writeFile(ResolutionReportFileName, content)
}

func (a OutputFileAdapter) WriteEvaluationReport(report types.EvaluationReport) error {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("# environment: sys_platform=%s python_version=%s\n",
		report.Environment.SysPlatform, report.Environment.PythonVersion))
	for _, entry := range report.Entries {
		state := "applicable"
		if !entry.Applicable {
			state = "skipped"
		}
		builder.WriteString(fmt.Sprintf("%s %s", entry.Package, state))
		if entry.Marker != "" {
			builder.WriteString(fmt.Sprintf(" ; %s", entry.Marker))
		}
		if entry.Format != "" {
			builder.WriteString(fmt.Sprintf(" format=%s", entry.Format))
		}
		builder.WriteString("\n")
	}
	return a.writeFile(EvaluationReportFileName, builder.String())
}

func (a OutputFileAdapter) WriteDebianExport(entries []types.DebianExportEntry) error {
	var builder strings.Builder
	for _, entry := range entries {
		builder.WriteString(entry.Package)
		builder.WriteString("=")
		builder.WriteString(entry.Version)
		builder.WriteString("\n")
	}
	return a.writeFile(DebianExportFileName, builder.String())
}

func (a OutputFileAdapter) writeFile(name string, content string) error {
	if strings.TrimSpace(a.OutputDir) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	if err := os.MkdirAll(a.OutputDir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	path := filepath.Join(a.OutputDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write " + name).
			WithCause(err)
	}
	return nil
}

var _ ports.OutputPort = OutputFileAdapter{}
