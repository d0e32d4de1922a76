package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/veritok/veritok/internal/model"
)

// RenderJSON writes the report to a file as indented JSON
func RenderJSON(report *model.AnalysisReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints a short human-readable summary to stdout
func RenderSummary(report *model.AnalysisReport) {
	fmt.Printf("Analysis %s\n", report.ID)
	fmt.Printf("  Creator:   @%s (%s)\n", report.Metadata.CreatorID, report.Metadata.Platform)
	fmt.Printf("  Content:   %s\n", report.Metadata.ContentType)

	if report.Transcript != nil {
		fmt.Printf("  Transcript: %d chars, %d segments\n", len(report.Transcript.Text), len(report.Transcript.Segments))
	} else {
		fmt.Printf("  Transcript: (none)\n")
	}

	if d := report.ClaimDetection; d != nil {
		fmt.Printf("  News content: %v (confidence %.1f)\n", d.HasNewsContent, d.Confidence)
		for _, claim := range d.CandidateClaims {
			fmt.Printf("    - %s\n", truncate(claim, 90))
		}
	}

	if v := report.Verification.Representative(); v != nil {
		fmt.Printf("  Verdict: %s (confidence %.2f)\n", v.Status, v.Confidence)
		for _, src := range v.Sources {
			fmt.Printf("    - %s (%.1f/10)\n", src.Domain, src.CredibilityScore*10)
		}
	}

	if report.Credibility != nil {
		fmt.Printf("  Credibility: %.1f/10\n", report.Credibility.Value)
		for _, f := range report.Credibility.Factors {
			fmt.Printf("    %+0.1f %s\n", f.Delta, f.Description)
		}
	}

	for _, d := range report.Degraded {
		fmt.Printf("  Degraded: %s\n", d)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
