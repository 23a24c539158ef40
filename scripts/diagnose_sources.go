package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"drug-pipeline/internal/config"
	"drug-pipeline/internal/domain/entity"
	"drug-pipeline/internal/infra/decode"
	"drug-pipeline/internal/usecase/ingest"
)

// SourceDiagnostic represents the diagnostic result for a single source file
type SourceDiagnostic struct {
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	Format        string `json:"format"`
	Path          string `json:"path"`
	Status        string `json:"status"` // "OK", "PARTIAL", "MISSING", "DECODE_ERROR", "EMPTY", "ALL_INVALID"
	RecordCount   int    `json:"record_count"`
	ValidCount    int    `json:"valid_count"`
	InvalidCount  int    `json:"invalid_count"`
	SampleDate    string `json:"sample_date,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
	FileSizeBytes int64  `json:"file_size_bytes"`
	DecodeTimeMs  int64  `json:"decode_time_ms"`
}

func main() {
	// Pipeline configuration
	configPath := os.Getenv("PIPELINE_CONFIG")
	if configPath == "" {
		configPath = "config/pipeline.yaml"
		log.Println("PIPELINE_CONFIG not set, using default")
	}

	cfg, err := config.LoadPipeline(configPath)
	if err != nil {
		log.Fatalf("Failed to load pipeline configuration: %v", err)
	}

	log.Printf("Diagnosing %d source files...\n", len(cfg.Sources))

	// Diagnose each source
	diagnostics := make([]SourceDiagnostic, 0, len(cfg.Sources))
	for i, src := range cfg.Sources {
		log.Printf("[%d/%d] Diagnosing: %s", i+1, len(cfg.Sources), src.Name)
		diag := diagnoseSource(src, cfg.LenientJSON())
		diagnostics = append(diagnostics, diag)
	}

	// Generate report
	generateReport(diagnostics)
	generateJSONReport(diagnostics)
}

func diagnoseSource(src config.SourceConfig, lenientJSON bool) SourceDiagnostic {
	diag := SourceDiagnostic{
		Name:   src.Name,
		Kind:   src.Kind,
		Format: src.Format,
		Path:   src.Path,
	}

	info, err := os.Stat(src.Path)
	if err != nil {
		diag.Status = "MISSING"
		diag.ErrorMessage = err.Error()
		return diag
	}
	diag.FileSizeBytes = info.Size()

	startTime := time.Now()
	records := &decode.FileSource{LenientJSON: lenientJSON}
	raws, err := records.Load(context.Background(), src.Path, entity.SourceFormat(src.Format))
	diag.DecodeTimeMs = time.Since(startTime).Milliseconds()

	if err != nil {
		diag.Status = "DECODE_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}

	diag.RecordCount = len(raws)
	if diag.RecordCount == 0 {
		diag.Status = "EMPTY"
		diag.ErrorMessage = "Source has no records"
		return diag
	}

	// Run the same validation the silver stage applies
	switch entity.SchemaKind(src.Kind) {
	case entity.SchemaDrugs:
		drugs, invalid := ingest.ValidateDrugs(raws)
		diag.ValidCount = len(drugs)
		diag.InvalidCount = len(invalid)
	default:
		mentions, invalid := ingest.ValidateMentions(raws, src.Origin())
		diag.ValidCount = len(mentions)
		diag.InvalidCount = len(invalid)
		if len(mentions) > 0 {
			diag.SampleDate = mentions[0].Date
		}
	}

	if diag.ValidCount == 0 {
		diag.Status = "ALL_INVALID"
		diag.ErrorMessage = "Every record failed validation"
		return diag
	}
	if diag.InvalidCount > 0 {
		diag.Status = "PARTIAL"
		return diag
	}

	diag.Status = "OK"
	return diag
}

// writef is a helper to write to file and handle errors
func writef(f *os.File, format string, args ...interface{}) error {
	_, err := fmt.Fprintf(f, format, args...)
	return err
}

func generateReport(diagnostics []SourceDiagnostic) {
	f, err := os.Create("source_diagnostic_report.txt")
	if err != nil {
		log.Printf("Failed to create report file: %v", err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Failed to close report file: %v", err)
		}
	}()

	// Helper to handle write errors
	writeErr := func(err error) bool {
		if err != nil {
			log.Printf("Failed to write to report: %v", err)
			return true
		}
		return false
	}

	if writeErr(writef(f, "===============================================\n")) {
		return
	}
	if writeErr(writef(f, "Source File Diagnostic Report\n")) {
		return
	}
	if writeErr(writef(f, "Generated: %s\n", time.Now().Format(time.RFC3339))) {
		return
	}
	if writeErr(writef(f, "Total Sources: %d\n", len(diagnostics))) {
		return
	}
	if writeErr(writef(f, "===============================================\n\n")) {
		return
	}

	// Summary statistics
	statusCount := make(map[string]int)
	var okCount, errorCount int
	for _, d := range diagnostics {
		statusCount[d.Status]++
		if d.Status == "OK" || d.Status == "PARTIAL" {
			okCount++
		} else {
			errorCount++
		}
	}

	_ = writef(f, "SUMMARY:\n")
	_ = writef(f, "  ✅ Ingestable: %d (%.1f%%)\n", okCount, float64(okCount)/float64(len(diagnostics))*100)
	_ = writef(f, "  ❌ Broken: %d (%.1f%%)\n", errorCount, float64(errorCount)/float64(len(diagnostics))*100)
	_ = writef(f, "\nSTATUS BREAKDOWN:\n")
	for status, count := range statusCount {
		_ = writef(f, "  %s: %d\n", status, count)
	}
	_ = writef(f, "\n")

	// Detailed results
	_ = writef(f, "DETAILED RESULTS:\n")
	_ = writef(f, "===============================================\n\n")

	// Ingestable sources
	_ = writef(f, "✅ INGESTABLE SOURCES (%d):\n", statusCount["OK"]+statusCount["PARTIAL"])
	_ = writef(f, "-------------------------------------------\n")
	for _, d := range diagnostics {
		if d.Status == "OK" || d.Status == "PARTIAL" {
			_ = writef(f, "Name: %s\n", d.Name)
			_ = writef(f, "  Path: %s (%s, %s)\n", d.Path, d.Kind, d.Format)
			_ = writef(f, "  Records: %d | Valid: %d | Invalid: %d\n", d.RecordCount, d.ValidCount, d.InvalidCount)
			_ = writef(f, "  Size: %d bytes | Decode: %dms\n", d.FileSizeBytes, d.DecodeTimeMs)
			if d.SampleDate != "" {
				_ = writef(f, "  Sample date: %s\n", d.SampleDate)
			}
			if d.Status == "PARTIAL" {
				_ = writef(f, "  ⚠️  %d records will land in the error partition\n", d.InvalidCount)
			}
			_ = writef(f, "\n")
		}
	}

	// Broken sources
	_ = writef(f, "\n❌ BROKEN SOURCES (%d):\n", errorCount)
	_ = writef(f, "-------------------------------------------\n")
	for _, d := range diagnostics {
		if d.Status != "OK" && d.Status != "PARTIAL" {
			_ = writef(f, "Name: %s\n", d.Name)
			_ = writef(f, "  Path: %s (%s, %s)\n", d.Path, d.Kind, d.Format)
			_ = writef(f, "  Status: %s\n", d.Status)
			_ = writef(f, "  Error: %s\n", d.ErrorMessage)
			_ = writef(f, "\n")
		}
	}

	log.Println("✅ Text report generated: source_diagnostic_report.txt")
}

func generateJSONReport(diagnostics []SourceDiagnostic) {
	f, err := os.Create("source_diagnostic_report.json")
	if err != nil {
		log.Printf("Failed to create JSON report: %v", err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Failed to close JSON report file: %v", err)
		}
	}()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(diagnostics); err != nil {
		log.Printf("Failed to write JSON report: %v", err)
		return
	}

	log.Println("✅ JSON report generated: source_diagnostic_report.json")
}
