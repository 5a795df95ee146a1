package records

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/fishfarm/internal/domain/advisory"
	"github.com/mamadbah2/fishfarm/internal/domain/models"
	"github.com/mamadbah2/fishfarm/internal/repository"
)

// ErrInvalidArguments indicates the submitted record could not be accepted.
var ErrInvalidArguments = errors.New("invalid record arguments")

// ErrUnknownSection indicates the section slug is not a farm section.
var ErrUnknownSection = errors.New("unknown section")

const (
	dateFormat = "2006-01-02"

	minPhoneDigits = 8
	maxPhoneDigits = 15
)

// Store is the persistence the records service needs.
type Store interface {
	GetSettings(ctx context.Context, userID string) (models.FarmSettings, error)
	UpsertSettings(ctx context.Context, settings models.FarmSettings) error

	ListBatches(ctx context.Context, userID string) ([]models.Batch, error)
	CreateBatch(ctx context.Context, batch models.Batch) (models.Batch, error)
	DeleteBatch(ctx context.Context, userID, id string) error

	ListSectionRecords(ctx context.Context, kind models.SectionKind, userID string) ([]models.SectionRecord, error)
	CreateSectionRecord(ctx context.Context, record models.SectionRecord) (models.SectionRecord, error)
	DeleteSectionRecord(ctx context.Context, kind models.SectionKind, userID, id string) error
}

// BatchExporter mirrors new batches to an external sheet.
type BatchExporter interface {
	ExportBatch(ctx context.Context, batch models.Batch) error
}

// NewBatch is the input of CreateBatch.
type NewBatch struct {
	BatchID        string  `json:"batchId"`
	Section        string  `json:"section"`
	Species        string  `json:"species"`
	Quantity       int     `json:"quantity"`
	FarmingSystem  string  `json:"farmingSystem"`
	AvgWeightGrams float64 `json:"avgWeight"`
	VolumeM3       float64 `json:"volume"`
	StartDate      string  `json:"startDate"`
	Notes          string  `json:"notes"`
}

// SettingsUpdate is the input of UpdateSettings.
type SettingsUpdate struct {
	FarmName       string  `json:"farmName"`
	Logo           *string `json:"logo"`
	WhatsAppNumber string  `json:"whatsappNumber"`
}

// Service implements the record keeping use cases of a farm owner.
type Service struct {
	store    Store
	exporter BatchExporter
	now      func() time.Time
	logger   *zap.Logger
}

// NewService constructs the records service. exporter may be nil.
func NewService(store Store, exporter BatchExporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, exporter: exporter, now: time.Now, logger: logger}
}

// GetSettings returns the user's settings or the defaults if none were saved.
func (s *Service) GetSettings(ctx context.Context, userID string) (models.FarmSettings, error) {
	settings, err := s.store.GetSettings(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.DefaultSettings(userID), nil
	}
	if err != nil {
		return models.FarmSettings{}, err
	}
	return settings, nil
}

// UpdateSettings saves the farm name, logo and digest number. An empty name
// restores the default and an empty number turns the daily digest off.
func (s *Service) UpdateSettings(ctx context.Context, userID string, update SettingsUpdate) (models.FarmSettings, error) {
	number, err := normalizePhone(update.WhatsAppNumber)
	if err != nil {
		return models.FarmSettings{}, err
	}

	settings := models.DefaultSettings(userID)
	if name := strings.TrimSpace(update.FarmName); name != "" {
		settings.FarmName = name
	}
	settings.Logo = update.Logo
	settings.WhatsAppNumber = number

	if err := s.store.UpsertSettings(ctx, settings); err != nil {
		return models.FarmSettings{}, err
	}
	return settings, nil
}

// ListBatches returns the user's batches, newest first.
func (s *Service) ListBatches(ctx context.Context, userID string) ([]models.Batch, error) {
	return s.store.ListBatches(ctx, userID)
}

// CreateBatch validates and stores a new batch.
func (s *Service) CreateBatch(ctx context.Context, userID string, in NewBatch) (models.Batch, error) {
	batch, err := buildBatch(userID, in)
	if err != nil {
		return models.Batch{}, err
	}

	created, err := s.store.CreateBatch(ctx, batch)
	if err != nil {
		return models.Batch{}, err
	}

	s.logger.Info("batch created",
		zap.String("user_id", userID),
		zap.String("batch_id", created.BatchID),
		zap.String("farming_system", created.FarmingSystem))

	if s.exporter != nil {
		if err := s.exporter.ExportBatch(ctx, created); err != nil {
			s.logger.Warn("batch export failed", zap.String("batch_id", created.BatchID), zap.Error(err))
		}
	}

	return created, nil
}

// DeleteBatch removes one of the user's batches.
func (s *Service) DeleteBatch(ctx context.Context, userID, id string) error {
	return s.store.DeleteBatch(ctx, userID, id)
}

// ListSectionRecords returns the journal of a section.
func (s *Service) ListSectionRecords(ctx context.Context, userID, section string) ([]models.SectionRecord, error) {
	kind, err := parseSection(section)
	if err != nil {
		return nil, err
	}
	return s.store.ListSectionRecords(ctx, kind, userID)
}

// CreateSectionRecord stores a journal entry. Columns the section does not
// keep are dropped.
func (s *Service) CreateSectionRecord(ctx context.Context, userID, section string, record models.SectionRecord) (models.SectionRecord, error) {
	kind, err := parseSection(section)
	if err != nil {
		return models.SectionRecord{}, err
	}

	record.ID = ""
	record.UserID = userID
	record.Sanitize(kind)
	if err := validateSectionRecord(record); err != nil {
		return models.SectionRecord{}, err
	}

	created, err := s.store.CreateSectionRecord(ctx, record)
	if err != nil {
		return models.SectionRecord{}, err
	}

	s.logger.Debug("section record created", zap.String("section", string(kind)), zap.String("user_id", userID))
	return created, nil
}

// DeleteSectionRecord removes one journal entry.
func (s *Service) DeleteSectionRecord(ctx context.Context, userID, section, id string) error {
	kind, err := parseSection(section)
	if err != nil {
		return err
	}
	return s.store.DeleteSectionRecord(ctx, kind, userID, id)
}

func buildBatch(userID string, in NewBatch) (models.Batch, error) {
	batchID := strings.TrimSpace(in.BatchID)
	species := strings.TrimSpace(in.Species)
	if batchID == "" || species == "" || strings.TrimSpace(in.Section) == "" || in.Quantity == 0 {
		return models.Batch{}, fmt.Errorf("%w: required fields missing", ErrInvalidArguments)
	}
	if in.Quantity < 0 {
		return models.Batch{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidArguments)
	}

	kind, err := parseSection(in.Section)
	if err != nil {
		return models.Batch{}, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}

	system := advisory.DefaultSystem
	if strings.TrimSpace(in.FarmingSystem) != "" {
		parsed, ok := advisory.ParseSystem(in.FarmingSystem)
		if !ok {
			return models.Batch{}, fmt.Errorf("%w: unknown farming system %q", ErrInvalidArguments, in.FarmingSystem)
		}
		system = parsed
	}

	if err := checkMeasure("average weight", in.AvgWeightGrams); err != nil {
		return models.Batch{}, err
	}
	if err := checkMeasure("volume", in.VolumeM3); err != nil {
		return models.Batch{}, err
	}

	startDate := strings.TrimSpace(in.StartDate)
	if startDate != "" {
		if _, err := time.Parse(dateFormat, startDate); err != nil {
			return models.Batch{}, fmt.Errorf("%w: start date must be YYYY-MM-DD", ErrInvalidArguments)
		}
	}

	return models.Batch{
		UserID:         userID,
		BatchID:        batchID,
		Section:        string(kind),
		Species:        species,
		Quantity:       in.Quantity,
		FarmingSystem:  string(system),
		AvgWeightGrams: in.AvgWeightGrams,
		VolumeM3:       in.VolumeM3,
		StartDate:      startDate,
		Notes:          strings.TrimSpace(in.Notes),
		Status:         models.BatchStatusActive,
	}, nil
}

func validateSectionRecord(r models.SectionRecord) error {
	if r.Date != "" {
		if _, err := time.Parse(dateFormat, r.Date); err != nil {
			return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidArguments)
		}
	}

	ints := map[string]*int{
		"quantity":        r.Quantity,
		"eggs count":      r.EggsCount,
		"mortality":       r.Mortality,
		"quarantine days": r.QuarantineDays,
	}
	for field, v := range ints {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidArguments, field)
		}
	}

	measures := map[string]*float64{
		"average weight": r.AvgWeight,
		"feed amount":    r.FeedAmount,
		"water level":    r.WaterLevel,
	}
	for field, v := range measures {
		if v == nil {
			continue
		}
		if err := checkMeasure(field, *v); err != nil {
			return err
		}
	}

	if r.HatchingRate != nil && (*r.HatchingRate < 0 || *r.HatchingRate > 100) {
		return fmt.Errorf("%w: hatching rate must be between 0 and 100", ErrInvalidArguments)
	}
	if r.PHLevel != nil && (*r.PHLevel < 0 || *r.PHLevel > 14) {
		return fmt.Errorf("%w: pH level must be between 0 and 14", ErrInvalidArguments)
	}

	return nil
}

func checkMeasure(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidArguments, field)
	}
	return nil
}

// normalizePhone keeps the digits of an international number, dropping a
// leading "+" and common separators.
func normalizePhone(raw string) (string, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "+")
	if raw == "" {
		return "", nil
	}

	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.':
		default:
			return "", fmt.Errorf("%w: whatsapp number must contain digits only", ErrInvalidArguments)
		}
	}

	digits := b.String()
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return "", fmt.Errorf("%w: whatsapp number must have %d to %d digits", ErrInvalidArguments, minPhoneDigits, maxPhoneDigits)
	}
	return digits, nil
}

func parseSection(section string) (models.SectionKind, error) {
	kind, ok := models.ParseSectionKind(section)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	return kind, nil
}
