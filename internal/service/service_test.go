package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyreview/internal/api"
	"studyreview/internal/database"
	"studyreview/internal/database/dbtest"
	"studyreview/internal/models"
	"studyreview/internal/repository"
	"studyreview/internal/security"
	"studyreview/internal/validation"
)

var day0 = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db        *database.DB
	users     *repository.UserRepository
	settings  *repository.SettingsRepository
	studies   *StudyService
	reviews   *ReviewService
	dashboard *DashboardService
	user      *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	users := repository.NewUserRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	studyRepo := repository.NewStudyRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	user, err := users.CreateUser(context.Background(), "Ana", "ana@example.com", "hash")
	require.NoError(t, err)

	f := &fixture{
		db:        db,
		users:     users,
		settings:  settingsRepo,
		studies:   NewStudyService(studyRepo),
		reviews:   NewReviewService(reviewRepo, settingsRepo),
		dashboard: NewDashboardService(studyRepo, reviewRepo),
		user:      user,
	}
	f.setNow(day0)
	return f
}

func (f *fixture) setNow(t time.Time) {
	now := func() time.Time { return t }
	f.studies.now = now
	f.reviews.now = now
	f.dashboard.now = now
}

func intPtr(v int) *int { return &v }

func TestAuthService(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	auth := NewAuthService(repository.NewUserRepository(db), security.NewTokenIssuer("secret", time.Hour))

	user, err := auth.Register(ctx, "Ana", "ana@example.com", "password123", "password123")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.NotificationEmail)

	tests := []struct {
		name    string
		input   [4]string
		wantErr error
	}{
		{name: "duplicate email", input: [4]string{"Ana", "ana@example.com", "password123", "password123"}, wantErr: ErrEmailTaken},
		{name: "password mismatch", input: [4]string{"Bia", "bia@example.com", "password123", "password124"}, wantErr: ErrPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Register(ctx, tt.input[0], tt.input[1], tt.input[2], tt.input[3])
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err = auth.Register(ctx, "Bia", "not-an-email", "password123", "password123")
	var verr validation.ValidationError
	assert.True(t, errors.As(err, &verr))

	_, _, _, err = auth.Login(ctx, "ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, _, err = auth.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, session, loggedIn, err := auth.Login(ctx, "ana@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Equal(t, user.ID, session.UserID)

	got, err := auth.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = auth.ValidateToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSettingsService_ClampsFactor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewSettingsService(f.settings)

	tests := []struct {
		name   string
		factor float64
		want   float64
	}{
		{name: "below range", factor: 0.1, want: 0.4},
		{name: "above range", factor: 2, want: 0.8},
		{name: "within range", factor: 0.55, want: 0.55},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved, err := svc.Update(ctx, f.user.ID, repository.Settings{PreExamMode: true, PreExamFactor: tt.factor})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, saved.PreExamFactor, 1e-9)

			got, err := svc.Get(ctx, f.user.ID)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got.PreExamFactor, 1e-9)
		})
	}

	_, err := svc.Update(ctx, f.user.ID, repository.Settings{NotificationEmail: "nope"})
	assert.Error(t, err)
}

func TestStudyService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	study, err := f.studies.Register(ctx, f.user.ID, api.StudyRequest{Subject: "Biologia", Topic: "Mitose", ContentType: "simples"})
	require.NoError(t, err)
	assert.Equal(t, models.ContentSimple, study.ContentType)
	assert.Equal(t, "2024-03-10", study.StudiedOn)

	rows, err := f.db.QueryContext(ctx, "SELECT due_on, kind, mode FROM reviews WHERE study_id = ? ORDER BY id", study.ID)
	require.NoError(t, err)
	defer rows.Close()

	type row struct{ due, kind, mode string }
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.due, &r.kind, &r.mode))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	want := []row{
		{"2024-03-10", "Revisão inicial", "simple"},
		{"2024-03-11", "1ª revisão", "simple"},
		{"2024-03-13", "2ª revisão", "simple"},
		{"2024-03-17", "3ª revisão", "simple"},
		{"2024-03-24", "4ª revisão", "simple"},
		{"2024-04-09", "5ª revisão", "simple"},
	}
	assert.Equal(t, want, got)
}

func TestStudyService_RegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  api.StudyRequest
	}{
		{name: "missing subject", req: api.StudyRequest{Topic: "Mitose"}},
		{name: "missing topic", req: api.StudyRequest{Subject: "Biologia"}},
		{name: "flashcard without answer", req: api.StudyRequest{Subject: "B", Topic: "M", ContentType: "flashcard", Question: "Q"}},
		{name: "quiz with unknown answer", req: api.StudyRequest{
			Subject: "B", Topic: "M", ContentType: "quiz", QuizQuestion: "Q",
			Options: map[string]string{"A": "1", "B": "2"}, CorrectOption: "C",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.studies.Register(ctx, f.user.ID, tt.req)
			var verr validation.ValidationError
			assert.True(t, errors.As(err, &verr), "got %v", err)
		})
	}
}

func TestStudyService_ExportCSV(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.studies.Register(ctx, f.user.ID, api.StudyRequest{Subject: "Biologia", Topic: "Mitose"})
	require.NoError(t, err)
	_, err = f.studies.Register(ctx, f.user.ID, api.StudyRequest{Subject: "História", Topic: "Revolução, Francesa"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.studies.ExportCSV(ctx, f.user.ID, &buf))
	assert.Equal(t, "materia,topico,data_estudo\nBiologia,Mitose,2024-03-10\nHistória,\"Revolução, Francesa\",2024-03-10\n", buf.String())
}

func registerQuiz(t *testing.T, f *fixture) int64 {
	t.Helper()
	_, err := f.studies.Register(context.Background(), f.user.ID, api.StudyRequest{
		Subject: "Biologia", Topic: "Mitose", ContentType: "quiz", QuizQuestion: "Fases?",
		Options: map[string]string{"A": "Duas", "B": "Quatro"}, CorrectOption: "B",
	})
	require.NoError(t, err)

	list, err := f.reviews.DueReviews(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Len(t, list.Urgent, 1)
	return list.Urgent[0].ID
}

func TestReviewService_DueReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := registerQuiz(t, f)

	list, err := f.reviews.DueReviews(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, list.Urgent, 1)
	r := list.Urgent[0]
	assert.Equal(t, id, r.ID)
	assert.Equal(t, "quiz", r.Mode)
	assert.Equal(t, "B", r.CorrectOption)
	assert.Equal(t, "Quatro", r.Options["B"])
	assert.Equal(t, 0, r.DaysLeft)
	assert.Empty(t, list.Upcoming)
	assert.False(t, list.PreExam)

	// Three days later the first two planned reviews are overdue too.
	f.setNow(day0.AddDate(0, 0, 3))
	list, err = f.reviews.DueReviews(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, list.Urgent, 3)
	assert.Equal(t, []int{-3, -2, 0}, []int{list.Urgent[0].DaysLeft, list.Urgent[1].DaysLeft, list.Urgent[2].DaysLeft})
}

func TestReviewService_GradeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := registerQuiz(t, f)

	other, err := f.users.CreateUser(ctx, "Bia", "bia@example.com", "hash")
	require.NoError(t, err)

	tests := []struct {
		name    string
		userID  int64
		review  int64
		grade   Grade
		wantErr error
	}{
		{name: "missing quality", userID: f.user.ID, review: id, grade: Grade{ResponseTime: intPtr(3)}, wantErr: ErrInvalidQuality},
		{name: "quality too high", userID: f.user.ID, review: id, grade: Grade{Quality: intPtr(6), ResponseTime: intPtr(3)}, wantErr: ErrInvalidQuality},
		{name: "quality negative", userID: f.user.ID, review: id, grade: Grade{Quality: intPtr(-1), ResponseTime: intPtr(3)}, wantErr: ErrInvalidQuality},
		{name: "confidence zero", userID: f.user.ID, review: id, grade: Grade{Quality: intPtr(4), Confidence: intPtr(0), ResponseTime: intPtr(3)}, wantErr: ErrInvalidConfidence},
		{name: "unknown review", userID: f.user.ID, review: 9999, grade: Grade{Quality: intPtr(4), ResponseTime: intPtr(3)}, wantErr: ErrReviewNotFound},
		{name: "review of another user", userID: other.ID, review: id, grade: Grade{Quality: intPtr(4), ResponseTime: intPtr(3)}, wantErr: ErrReviewNotFound},
		{name: "quiz without response time", userID: f.user.ID, review: id, grade: Grade{Quality: intPtr(4)}, wantErr: ErrInteractionRequired},
		{name: "negative response time", userID: f.user.ID, review: id, grade: Grade{Quality: intPtr(4), ResponseTime: intPtr(-1)}, wantErr: ErrInteractionRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.reviews.Grade(ctx, tt.userID, tt.review, tt.grade)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReviewService_Grade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := registerQuiz(t, f)

	// Fresh review, quality 5 confidence 4 in 17s: SM-2 gives 1 day,
	// confidence 1.15 rounds back to 1.
	res, err := f.reviews.Grade(ctx, f.user.ID, id, Grade{Quality: intPtr(5), Confidence: intPtr(4), ResponseTime: intPtr(17)})
	require.NoError(t, err)
	assert.Equal(t, 1, res.IntervalDays)
	assert.Equal(t, "2024-03-11", res.NextReview)
	assert.InDelta(t, 2.6, res.EaseFactor, 1e-9)

	var quality, confidence, responseTime int
	var done bool
	var completedOn string
	err = f.db.QueryRowContext(ctx, "SELECT done, quality, confidence, response_time, completed_on FROM reviews WHERE id = ?", id).
		Scan(&done, &quality, &confidence, &responseTime, &completedOn)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, []int{5, 4, 17}, []int{quality, confidence, responseTime})
	assert.Equal(t, "2024-03-10", completedOn)

	var kind, mode string
	var repetition, interval int
	err = f.db.QueryRowContext(ctx, "SELECT kind, mode, repetition, interval_days FROM reviews WHERE id = ?", res.NextReviewID).
		Scan(&kind, &mode, &repetition, &interval)
	require.NoError(t, err)
	assert.Equal(t, models.KindScheduled, kind)
	assert.Equal(t, "quiz", mode)
	assert.Equal(t, 1, repetition)
	assert.Equal(t, 1, interval)

	_, err = f.reviews.Grade(ctx, f.user.ID, id, Grade{Quality: intPtr(5), ResponseTime: intPtr(3)})
	assert.ErrorIs(t, err, ErrReviewDone)
}

func TestReviewService_GradeChain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.studies.Register(ctx, f.user.ID, api.StudyRequest{Subject: "Biologia", Topic: "Mitose"})
	require.NoError(t, err)
	list, err := f.reviews.DueReviews(ctx, f.user.ID)
	require.NoError(t, err)
	id := list.Urgent[0].ID

	// Simple reviews need no response time; default confidence is neutral.
	intervals := []int{1, 6, 16}
	for i, want := range intervals {
		res, err := f.reviews.Grade(ctx, f.user.ID, id, Grade{Quality: intPtr(5)})
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, want, res.IntervalDays, "step %d", i)
		id = res.NextReviewID
	}
}

func TestReviewService_GradePreExam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.settings.SaveSettings(ctx, f.user.ID, repository.Settings{PreExamMode: true, PreExamFactor: 0.5}))

	_, err := f.studies.Register(ctx, f.user.ID, api.StudyRequest{Subject: "Biologia", Topic: "Mitose"})
	require.NoError(t, err)
	list, err := f.reviews.DueReviews(ctx, f.user.ID)
	require.NoError(t, err)
	assert.True(t, list.PreExam)

	id := list.Urgent[0].ID
	_, err = f.db.ExecContext(ctx, "UPDATE reviews SET repetition = 1 WHERE id = ?", id)
	require.NoError(t, err)

	// SM-2 gives 6 days; pre-exam 0.5 halves it.
	res, err := f.reviews.Grade(ctx, f.user.ID, id, Grade{Quality: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, 3, res.IntervalDays)
	assert.Equal(t, "2024-03-13", res.NextReview)
}

func TestDashboardService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.dashboard.Dashboard(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalStudies)
	assert.Zero(t, empty.ActiveDays)
	assert.Empty(t, empty.ValuesTotal)
	assert.Len(t, empty.Values7d, 7)
	assert.Len(t, empty.Values30d, 30)

	f.setNow(day0.AddDate(0, 0, -2))
	_, err = f.studies.Register(ctx, f.user.ID, api.StudyRequest{Subject: "Biologia", Topic: "Mitose"})
	require.NoError(t, err)

	list, err := f.reviews.DueReviews(ctx, f.user.ID)
	require.NoError(t, err)
	_, err = f.reviews.Grade(ctx, f.user.ID, list.Urgent[0].ID, Grade{Quality: intPtr(4)})
	require.NoError(t, err)

	f.setNow(day0)
	d, err := f.dashboard.Dashboard(ctx, f.user.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, d.TotalStudies)
	assert.Equal(t, 1, d.NewStudies7d)
	assert.Equal(t, 1, d.CompletedReviews)
	// Five planned reviews plus the scheduled one.
	assert.Equal(t, 6, d.PendingReviews)
	assert.InDelta(t, 14.3, d.CompletionPercent, 1e-9)
	assert.Equal(t, 3, d.ActiveDays)
	assert.Equal(t, []string{"2024-03-08", "2024-03-09", "2024-03-10"}, d.DatesTotal)
	assert.Equal(t, []int{1, 1, 1}, d.ValuesTotal)
	assert.Equal(t, "2024-03-10", d.Dates7d[6])
	assert.Equal(t, []int{0, 0, 0, 0, 1, 0, 0}, d.Values7d)
	assert.Equal(t, TrendLabels, d.TrendLabels)
	assert.Equal(t, []int{0, 0, 10, 0}, d.TrendValues)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent map[string][]ReminderItem
	fail string
}

func (m *fakeMailer) SendReminderEmail(_ context.Context, to, _ string, items []ReminderItem) error {
	if to == m.fail {
		return errors.New("smtp down")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sent == nil {
		m.sent = make(map[string][]ReminderItem)
	}
	m.sent[to] = items
	return nil
}

func TestReminderService_RunOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Opted in by default but with nothing to review.
	_, err := f.users.CreateUser(ctx, "Bia", "bia@example.com", "hash")
	require.NoError(t, err)
	caio, err := f.users.CreateUser(ctx, "Caio", "caio@example.com", "hash")
	require.NoError(t, err)
	require.NoError(t, f.settings.SaveSettings(ctx, caio.ID, repository.Settings{RemindersEnabled: false, PreExamFactor: 0.6}))
	require.NoError(t, f.settings.SaveSettings(ctx, f.user.ID, repository.Settings{RemindersEnabled: true, PreExamFactor: 0.6, NotificationEmail: "alerts@example.com"}))

	for _, id := range []int64{f.user.ID, caio.ID} {
		_, err := f.studies.Register(ctx, id, api.StudyRequest{Subject: "Biologia", Topic: "Mitose"})
		require.NoError(t, err)
	}

	mailer := &fakeMailer{}
	svc := NewReminderService(f.users, repository.NewReviewRepository(f.db), mailer, 1)
	svc.now = func() time.Time { return day0 }

	sent, err := svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	items := mailer.sent["alerts@example.com"]
	require.Len(t, items, 2, "today's review and tomorrow's")
	assert.Equal(t, 0, items[0].DaysLeft)
	assert.Equal(t, 1, items[1].DaysLeft)
	assert.Equal(t, models.KindInitial, items[0].Kind)

	mailer = &fakeMailer{fail: "alerts@example.com"}
	svc.mailer = mailer
	sent, err = svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestRenderReminder(t *testing.T) {
	subject, htmlBody, textBody := renderReminder("Ana <3", "http://localhost:8080", []ReminderItem{
		{Subject: "Biologia", Topic: "Mitose", Kind: "1ª revisão", DaysLeft: -1},
		{Subject: "História", Topic: "Roma", Kind: "SM-2", DaysLeft: 2},
	})
	assert.NotEmpty(t, subject)
	assert.Contains(t, htmlBody, "Ana &lt;3")
	assert.Contains(t, htmlBody, `href="http://localhost:8080"`)
	assert.Contains(t, textBody, "- Biologia - Mitose (1ª revisão) - due overdue")
	assert.Contains(t, textBody, "due in 2 day(s)")
}
