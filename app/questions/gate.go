package questions

import (
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const (
	rateLimitWindow = 60 * time.Second
	maxSubmissions  = 3
	minFormTime     = 3 * time.Second

	anonymousName = "Анонимный слушатель"

	MsgSuccess          = "Вопрос успешно отправлен"
	MsgRateLimited      = "Слишком много запросов. Пожалуйста, подождите минуту перед следующей отправкой."
	MsgQuestionRequired = "Вопрос обязателен для заполнения"
	MsgPrivacyRequired  = "Необходимо согласиться на обработку данных"
	MsgStoreFailure     = "Произошла ошибка при сохранении вопроса"
)

type Outcome int

const (
	// OutcomeAccepted: submission validated and persisted.
	OutcomeAccepted Outcome = iota
	// OutcomeDropped: bot suspected; report success, write nothing.
	OutcomeDropped
	OutcomeRateLimited
	OutcomeInvalid
	OutcomeStoreFailed
)

// Request is one incoming form submission, all fields as posted. Website is
// the honeypot field; FormStartTime is the client-reported render timestamp
// in epoch milliseconds; Privacy is the raw checkbox value ("on" from a
// plain HTML form).
type Request struct {
	Name          string
	Email         string
	Question      string
	Category      string
	Privacy       string
	Website       string
	FormStartTime string
	IP            string
	UserAgent     string
}

// Result carries the terminal outcome and the user-facing (Russian) message.
type Result struct {
	Outcome Outcome
	Message string
}

// Gate runs every submission through the bot checks, the rate limit and
// field validation before anything reaches the store.
type Gate struct {
	limiter *RateLimiter
	store   *Store
	now     func() time.Time
}

func NewGate(store *Store) *Gate {
	return &Gate{
		limiter: NewRateLimiter(rateLimitWindow, maxSubmissions),
		store:   store,
		now:     time.Now,
	}
}

func (g *Gate) Process(req Request) Result {
	// Honeypot: a hidden field real users never fill. Answer with success so
	// the bot cannot tell it was detected.
	if strings.TrimSpace(req.Website) != "" {
		slog.Info("Bot detected (honeypot)", "ip", req.IP)
		return Result{Outcome: OutcomeDropped, Message: MsgSuccess}
	}

	if req.FormStartTime != "" {
		if startMs, err := strconv.ParseInt(req.FormStartTime, 10, 64); err == nil {
			spent := g.now().Sub(time.UnixMilli(startMs))
			if spent < minFormTime {
				slog.Info("Bot detected (too fast)", "ip", req.IP, "time_spent", spent.String())
				return Result{Outcome: OutcomeDropped, Message: MsgSuccess}
			}
		}
	}

	if !g.limiter.Allow(req.IP) {
		slog.Warn("Rate limit exceeded", "ip", req.IP)
		return Result{Outcome: OutcomeRateLimited, Message: MsgRateLimited}
	}

	if strings.TrimSpace(req.Question) == "" {
		return Result{Outcome: OutcomeInvalid, Message: MsgQuestionRequired}
	}
	// Any non-empty value counts as consent, whatever the checkbox posts
	if req.Privacy == "" {
		return Result{Outcome: OutcomeInvalid, Message: MsgPrivacyRequired}
	}

	submission := Submission{
		Timestamp: g.now().UTC().Format(time.RFC3339),
		Name:      defaultName(req.Name),
		Email:     trimmedOrNil(req.Email),
		Question:  strings.TrimSpace(req.Question),
		Category:  defaultCategory(req.Category),
		IP:        req.IP,
		UserAgent: req.UserAgent,
	}

	if err := g.store.Append(submission); err != nil {
		slog.Error("Failed to save question", "ip", req.IP, "error", err)
		return Result{Outcome: OutcomeStoreFailed, Message: MsgStoreFailure}
	}

	return Result{Outcome: OutcomeAccepted, Message: MsgSuccess}
}

func defaultName(name string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return anonymousName
}

func defaultCategory(category string) string {
	if category != "" {
		return category
	}
	return "other"
}

func trimmedOrNil(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
