package service

import (
	"context"
	"math"
	"time"

	"studyreview/internal/api"
	"studyreview/internal/models"
	"studyreview/internal/repository"
)

// TrendLabels name the four weekly buckets of the trend chart
var TrendLabels = []string{"Semana 1", "Semana 2", "Semana 3", "Semana 4"}

// trendScale stretches the weekly counts for the chart
const trendScale = 10

// DashboardService aggregates progress figures
type DashboardService struct {
	studyRepo  *repository.StudyRepository
	reviewRepo *repository.ReviewRepository
	now        func() time.Time
}

func NewDashboardService(studyRepo *repository.StudyRepository, reviewRepo *repository.ReviewRepository) *DashboardService {
	return &DashboardService{studyRepo: studyRepo, reviewRepo: reviewRepo, now: time.Now}
}

// Dashboard computes the progress figures of userID as of today
func (s *DashboardService) Dashboard(ctx context.Context, userID int64) (*api.Dashboard, error) {
	today := s.now()
	todayStr := models.FormatDate(today)
	d := &api.Dashboard{}

	var err error
	if d.TotalStudies, err = s.studyRepo.CountStudies(ctx, userID, ""); err != nil {
		return nil, err
	}
	if d.NewStudies7d, err = s.studyRepo.CountStudies(ctx, userID, models.FormatDate(today.AddDate(0, 0, -7))); err != nil {
		return nil, err
	}
	if d.CompletedReviews, err = s.reviewRepo.CountReviews(ctx, userID, true); err != nil {
		return nil, err
	}
	if d.PendingReviews, err = s.reviewRepo.CountReviews(ctx, userID, false); err != nil {
		return nil, err
	}
	if d.UrgentReviews, err = s.reviewRepo.CountPendingOn(ctx, userID, todayStr); err != nil {
		return nil, err
	}
	if total := d.CompletedReviews + d.PendingReviews; total > 0 {
		d.CompletionPercent = math.Round(float64(d.CompletedReviews)/float64(total)*1000) / 10
	}

	firstStr, err := s.studyRepo.FirstStudyDate(ctx, userID)
	if err != nil {
		return nil, err
	}

	// One query covers every chart: the earliest day any series needs up to
	// the end of the last trend week.
	from := today.AddDate(0, 0, -29)
	var first time.Time
	if firstStr != "" {
		if first, err = models.ParseDate(firstStr); err == nil && first.Before(from) {
			from = first
		}
	}
	perDay, err := s.reviewRepo.CompletedPerDay(ctx, userID, models.FormatDate(from), models.FormatDate(today.AddDate(0, 0, 7)))
	if err != nil {
		return nil, err
	}

	d.Dates7d, d.Values7d = dailySeries(perDay, today, 7)
	d.Dates30d, d.Values30d = dailySeries(perDay, today, 30)

	d.DatesTotal, d.ValuesTotal = []string{}, []int{}
	if !first.IsZero() {
		d.ActiveDays = models.DaysBetween(first, today) + 1
		total := 0
		for day := first; !day.After(today); day = day.AddDate(0, 0, 1) {
			date := models.FormatDate(day)
			total += perDay[date]
			d.DatesTotal = append(d.DatesTotal, date)
			d.ValuesTotal = append(d.ValuesTotal, total)
		}
	}

	d.TrendLabels = TrendLabels
	d.TrendValues = weeklyTrend(perDay, today)
	return d, nil
}

// dailySeries returns the last n dates ending today with their completions
func dailySeries(perDay map[string]int, today time.Time, n int) ([]string, []int) {
	dates := make([]string, 0, n)
	values := make([]int, 0, n)
	for i := n - 1; i >= 0; i-- {
		date := models.FormatDate(today.AddDate(0, 0, -i))
		dates = append(dates, date)
		values = append(values, perDay[date])
	}
	return dates, values
}

// weeklyTrend counts completions in four consecutive week windows, the last
// one starting today. Both ends of a window are inclusive.
func weeklyTrend(perDay map[string]int, today time.Time) []int {
	values := make([]int, 0, len(TrendLabels))
	for week := range len(TrendLabels) {
		start := today.AddDate(0, 0, -7*(3-week))
		count := 0
		for i := 0; i <= 7; i++ {
			count += perDay[models.FormatDate(start.AddDate(0, 0, i))]
		}
		values = append(values, count*trendScale)
	}
	return values
}
