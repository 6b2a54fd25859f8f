// Package api holds the JSON bodies exchanged between the review server and
// its clients. Field names follow the wire format of the grading and
// registration endpoints.
package api

const (
	StatusOK      = "ok"
	StatusSuccess = "sucesso"
	StatusError   = "erro"
)

// GradeRequest is the body of POST /marcar/{reviewId}.
type GradeRequest struct {
	Quality      int  `json:"quality"`
	Confidence   int  `json:"nivel_confianca"`
	ResponseTime *int `json:"tempo_resposta"`
	Interacted   bool `json:"interagiu"`
}

// GradeResponse is the answer to a grading request. On failure Status is not
// StatusOK and Message explains why.
type GradeResponse struct {
	Status       string  `json:"status"`
	NextReview   string  `json:"proxima_revisao,omitempty"`
	IntervalDays int     `json:"intervalo_dias,omitempty"`
	EaseFactor   float64 `json:"ef,omitempty"`
	Message      string  `json:"mensagem,omitempty"`
}

// StudyRequest is the body of POST /cadastrar.
type StudyRequest struct {
	Subject       string            `json:"materia"`
	Topic         string            `json:"topico"`
	ContentType   string            `json:"tipo_conteudo,omitempty"`
	Question      string            `json:"pergunta,omitempty"`
	Answer        string            `json:"resposta,omitempty"`
	QuizQuestion  string            `json:"quiz_pergunta,omitempty"`
	Options       map[string]string `json:"opcoes,omitempty"`
	CorrectOption string            `json:"quiz_resposta_correta,omitempty"`
}

// StatusResponse is the generic {status, mensagem} envelope.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"mensagem,omitempty"`
}

// Review is one due review as listed by GET /api/reviews.
type Review struct {
	ID            int64             `json:"id"`
	Subject       string            `json:"materia"`
	Topic         string            `json:"topico"`
	Kind          string            `json:"tipo"`
	DueOn         string            `json:"data_revisao"`
	DaysLeft      int               `json:"dias_restantes"`
	Mode          string            `json:"modo_revisao"`
	Question      string            `json:"pergunta,omitempty"`
	Answer        string            `json:"resposta,omitempty"`
	Options       map[string]string `json:"opcoes,omitempty"`
	CorrectOption string            `json:"quiz_resposta_correta,omitempty"`
}

// ReviewList splits due reviews into overdue/today and later ones.
type ReviewList struct {
	Urgent   []Review `json:"urgentes"`
	Upcoming []Review `json:"proximas"`
	PreExam  bool     `json:"pre_exam"`
}

// Credentials is the body of the login and register endpoints.
type Credentials struct {
	Name     string `json:"nome,omitempty"`
	Email    string `json:"email"`
	Password string `json:"senha"`
	Confirm  string `json:"confirmar_senha,omitempty"`
}

// Settings is read and written by /api/settings.
type Settings struct {
	PreExamMode       bool    `json:"pre_exam"`
	PreExamFactor     float64 `json:"pre_exam_factor"`
	RemindersEnabled  bool    `json:"lembretes_ativos"`
	NotificationEmail string  `json:"email_notificacao"`
}

// Dashboard carries the figures of GET /api/dashboard-data.
type Dashboard struct {
	TotalStudies      int      `json:"total_estudos"`
	CompletedReviews  int      `json:"revisoes_concluidas"`
	PendingReviews    int      `json:"revisoes_pendentes"`
	NewStudies7d      int      `json:"novos_estudos_7d"`
	UrgentReviews     int      `json:"revisoes_urgentes"`
	CompletionPercent float64  `json:"percentual_concluidas"`
	ActiveDays        int      `json:"dias_ativos"`
	Dates7d           []string `json:"datas_progresso"`
	Values7d          []int    `json:"valores_progresso"`
	Dates30d          []string `json:"datas_progresso_30"`
	Values30d         []int    `json:"valores_progresso_30"`
	DatesTotal        []string `json:"datas_total"`
	ValuesTotal       []int    `json:"valores_total"`
	TrendLabels       []string `json:"labels_tendencias"`
	TrendValues       []int    `json:"dados_tendencias"`
}
