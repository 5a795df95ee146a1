package records

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/fishfarm/internal/domain/models"
)

const reportRule = "------------------------------------------------------------"

// BatchReportFilter narrows a batch report. Empty fields match every batch.
// From and To are inclusive bounds on the start date.
type BatchReportFilter struct {
	Section string `form:"section" json:"section,omitempty"`
	Species string `form:"species" json:"species,omitempty"`
	From    string `form:"from" json:"from,omitempty"`
	To      string `form:"to" json:"to,omitempty"`
}

// ReportCount is one row of a report summary.
type ReportCount struct {
	Name     string `json:"name"`
	Batches  int    `json:"batches"`
	Quantity int    `json:"quantity"`
}

// BatchReport is a filtered view of the user's batches with its totals.
type BatchReport struct {
	FarmName      string            `json:"farmName"`
	GeneratedAt   time.Time         `json:"generatedAt"`
	Filter        BatchReportFilter `json:"filter"`
	TotalBatches  int               `json:"totalBatches"`
	TotalQuantity int               `json:"totalQuantity"`
	BySection     []ReportCount     `json:"bySection"`
	BySpecies     []ReportCount     `json:"bySpecies"`
	Batches       []models.Batch    `json:"batches"`
	Text          string            `json:"text"`
}

// BatchReport filters the user's batches, summarizes them by section and by
// species and renders the result as plain text.
func (s *Service) BatchReport(ctx context.Context, userID string, filter BatchReportFilter) (BatchReport, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return BatchReport{}, err
	}

	batches, err := s.store.ListBatches(ctx, userID)
	if err != nil {
		return BatchReport{}, fmt.Errorf("load batches: %w", err)
	}

	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return BatchReport{}, err
	}

	report := BatchReport{
		FarmName:    settings.FarmName,
		GeneratedAt: s.now().UTC(),
		Filter:      filter,
		Batches:     make([]models.Batch, 0, len(batches)),
	}

	sections := map[string]*ReportCount{}
	species := map[string]*ReportCount{}
	for _, batch := range batches {
		if !filter.matches(batch) {
			continue
		}
		report.Batches = append(report.Batches, batch)
		report.TotalQuantity += batch.Quantity
		tally(sections, batch.Section, batch.Quantity)
		tally(species, batch.Species, batch.Quantity)
	}

	report.TotalBatches = len(report.Batches)
	report.BySection = sortedCounts(sections)
	report.BySpecies = sortedCounts(species)
	report.Text = renderBatchReport(report)

	s.logger.Debug("batch report generated",
		zap.String("user_id", userID),
		zap.Int("batches", report.TotalBatches))
	return report, nil
}

func normalizeFilter(f BatchReportFilter) (BatchReportFilter, error) {
	f.Species = strings.TrimSpace(f.Species)
	f.From = strings.TrimSpace(f.From)
	f.To = strings.TrimSpace(f.To)

	if section := strings.TrimSpace(f.Section); section != "" {
		kind, err := parseSection(section)
		if err != nil {
			return BatchReportFilter{}, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		}
		f.Section = string(kind)
	} else {
		f.Section = ""
	}

	for _, bound := range []string{f.From, f.To} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse(dateFormat, bound); err != nil {
			return BatchReportFilter{}, fmt.Errorf("%w: report dates must be YYYY-MM-DD", ErrInvalidArguments)
		}
	}
	if f.From != "" && f.To != "" && f.From > f.To {
		return BatchReportFilter{}, fmt.Errorf("%w: report start date is after its end date", ErrInvalidArguments)
	}

	return f, nil
}

// matches compares start dates as strings; YYYY-MM-DD sorts chronologically.
// A batch without a start date never matches a date bound.
func (f BatchReportFilter) matches(b models.Batch) bool {
	if f.Section != "" && b.Section != f.Section {
		return false
	}
	if f.Species != "" && !strings.Contains(strings.ToLower(b.Species), strings.ToLower(f.Species)) {
		return false
	}
	if f.From != "" && (b.StartDate == "" || b.StartDate < f.From) {
		return false
	}
	if f.To != "" && (b.StartDate == "" || b.StartDate > f.To) {
		return false
	}
	return true
}

func tally(counts map[string]*ReportCount, name string, quantity int) {
	c, ok := counts[name]
	if !ok {
		c = &ReportCount{Name: name}
		counts[name] = c
	}
	c.Batches++
	c.Quantity += quantity
}

func sortedCounts(counts map[string]*ReportCount) []ReportCount {
	out := make([]ReportCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func renderBatchReport(r BatchReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s batch report\n", r.FarmName)
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "Total batches: %d\nTotal quantity: %d\n", r.TotalBatches, r.TotalQuantity)

	writeCounts(&b, "By section", r.BySection)
	writeCounts(&b, "By species", r.BySpecies)

	b.WriteString("\nBatches\n")
	b.WriteString(reportRule + "\n")
	if len(r.Batches) == 0 {
		b.WriteString("No batch matches this report.\n")
	}
	for i, batch := range r.Batches {
		fmt.Fprintf(&b, "%d. %s (%s) %s, %d fish, %s\n", i+1, batch.BatchID, batch.Section, batch.Species, batch.Quantity, batch.Status)
		if batch.StartDate != "" {
			fmt.Fprintf(&b, "   Started %s\n", batch.StartDate)
		}
		if batch.Notes != "" {
			fmt.Fprintf(&b, "   Notes: %s\n", batch.Notes)
		}
	}

	return b.String()
}

func writeCounts(b *strings.Builder, title string, counts []ReportCount) {
	fmt.Fprintf(b, "\n%s\n%s\n", title, reportRule)
	for _, c := range counts {
		fmt.Fprintf(b, "%s: %d batches, %d fish\n", c.Name, c.Batches, c.Quantity)
	}
}
