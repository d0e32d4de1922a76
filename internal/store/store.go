package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/veritok/veritok/internal/model"
)

// AnalysisRecord is the flattened persistence shape of an analysis
// report, keyed by the generated analysis identifier. The full report
// is kept alongside as JSON for lossless retrieval.
type AnalysisRecord struct {
	ID          string `gorm:"primaryKey"`
	URL         string `gorm:"index"`
	Platform    string
	CreatorID   string `gorm:"index"`
	CreatorName string
	ContentType string
	Title       string

	HasTranscript     bool
	RequiresFactCheck bool

	VerdictStatus     string
	VerdictConfidence float64
	CredibilityValue  *float64

	// Mode-A summary counts, zero when verification ran in overall mode
	SummaryTrue              int
	SummaryFalse             int
	SummaryMisleading        int
	SummaryUnverifiable      int
	SummaryNeedsVerification int
	SummaryErrors            int

	ReportJSON []byte
	CreatedAt  time.Time
}

// CreatorRecord accumulates credibility across a creator's analyses
type CreatorRecord struct {
	CreatorID     string `gorm:"primaryKey"`
	Platform      string `gorm:"primaryKey"`
	DisplayName   string
	TotalAnalyses int
	ScoreSum      float64
	AverageScore  float64
	UpdatedAt     time.Time
}

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")

// Store persists analysis reports and creator credibility history
type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) the sqlite database at cfg.Path
func Open(cfg *model.StoreConfig) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&AnalysisRecord{}, &CreatorRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveReport flattens and persists a report, and folds its credibility
// rating into the creator's running aggregate.
func (s *Store) SaveReport(report *model.AnalysisReport) error {
	record, err := recordFromReport(report)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("save analysis: %w", err)
		}
		if report.Credibility == nil || report.Metadata.CreatorID == "" {
			return nil
		}
		return s.updateCreator(tx, report)
	})
}

func (s *Store) updateCreator(tx *gorm.DB, report *model.AnalysisReport) error {
	var creator CreatorRecord
	err := tx.Where("creator_id = ? AND platform = ?", report.Metadata.CreatorID, report.Metadata.Platform).
		First(&creator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		creator = CreatorRecord{
			CreatorID: report.Metadata.CreatorID,
			Platform:  string(report.Metadata.Platform),
		}
	case err != nil:
		return fmt.Errorf("load creator: %w", err)
	}

	creator.DisplayName = report.Metadata.CreatorDisplayName
	creator.TotalAnalyses++
	creator.ScoreSum += report.Credibility.Value
	creator.AverageScore = creator.ScoreSum / float64(creator.TotalAnalyses)
	creator.UpdatedAt = time.Now().UTC()

	if err := tx.Save(&creator).Error; err != nil {
		return fmt.Errorf("save creator: %w", err)
	}
	return nil
}

// Analysis loads the full report for an analysis ID
func (s *Store) Analysis(id string) (*model.AnalysisReport, error) {
	var record AnalysisRecord
	if err := s.db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load analysis: %w", err)
	}

	var report model.AnalysisReport
	if err := json.Unmarshal(record.ReportJSON, &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}

// Creator returns the accumulated credibility for a creator
func (s *Store) Creator(platform, creatorID string) (*CreatorRecord, error) {
	var creator CreatorRecord
	err := s.db.Where("creator_id = ? AND platform = ?", creatorID, platform).First(&creator).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load creator: %w", err)
	}
	return &creator, nil
}

// Recent returns the most recent analysis records
func (s *Store) Recent(limit int) ([]AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []AnalysisRecord
	if err := s.db.Order("created_at desc").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	return records, nil
}

func recordFromReport(report *model.AnalysisReport) (*AnalysisRecord, error) {
	raw, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	record := &AnalysisRecord{
		ID:                report.ID,
		URL:               report.Metadata.OriginalURL,
		Platform:          string(report.Metadata.Platform),
		CreatorID:         report.Metadata.CreatorID,
		CreatorName:       report.Metadata.CreatorDisplayName,
		ContentType:       string(report.Metadata.ContentType),
		Title:             report.Metadata.Title,
		HasTranscript:     report.Transcript != nil,
		RequiresFactCheck: report.RequiresFactCheck,
		ReportJSON:        raw,
		CreatedAt:         report.AnalyzedAt,
	}

	if v := report.Verification.Representative(); v != nil {
		record.VerdictStatus = string(v.Status)
		record.VerdictConfidence = v.Confidence
	}
	if report.Credibility != nil {
		value := report.Credibility.Value
		record.CredibilityValue = &value
	}
	if report.Verification != nil && report.Verification.Mode == model.ModePerClaim && report.Verification.Summary != nil {
		sum := report.Verification.Summary
		record.SummaryTrue = sum.VerifiedTrue
		record.SummaryFalse = sum.VerifiedFalse
		record.SummaryMisleading = sum.Misleading
		record.SummaryUnverifiable = sum.Unverifiable
		record.SummaryNeedsVerification = sum.NeedsVerification
		record.SummaryErrors = sum.Errors
	}

	return record, nil
}
