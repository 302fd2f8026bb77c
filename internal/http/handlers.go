package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mealtab/internal/core"
	"mealtab/internal/report"
	"mealtab/internal/suggest"
)

type transactionRow struct {
	Index     int
	Merchant  string
	Amount    string
	TimeOfDay string
	Note      string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	l, _ := s.svc.Snapshot()
	now := s.svc.Now()

	data := struct {
		Date         string
		Transactions []transactionRow
		Merchants    []string
		Spent        string
		Balance      string
		Budget       string
		MailtoLink   template.URL
	}{
		Date:       report.FormatDate(now),
		Merchants:  suggest.Merchants(l.Transactions),
		Spent:      core.FormatCents(l.SpentCents()),
		Balance:    core.FormatCents(l.BalanceCents()),
		Budget:     core.FormatCents(l.StartingBudgetCents),
		MailtoLink: template.URL(report.MailtoLink(report.Subject(now), report.Format(l, now))),
	}
	for i, t := range l.Transactions {
		data.Transactions = append(data.Transactions, transactionRow{
			Index:     i,
			Merchant:  t.Merchant,
			Amount:    core.FormatCents(t.Amount.Cents),
			TimeOfDay: string(t.TimeOfDay()),
			Note:      t.Note,
		})
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	merchant := sanitizeInput(r.Form.Get("merchant"))
	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	note := sanitizeInput(r.Form.Get("note"))

	t, err := s.svc.AddTransaction(r.Context(), merchant, amountStr, note)
	switch {
	case errors.Is(err, core.ErrEmptyMerchant):
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Merchant name is required</div>`))
		return
	case errors.Is(err, core.ErrInvalidAmount):
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Amount must be a positive number</div>`))
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Transaction add error", "error", err, "merchant", merchant)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Could not save the transaction</div>`))
		return
	}

	_, revision := s.svc.Snapshot()
	w.Header().Set("HX-Trigger", `{"ledger:changed": {"revision": `+strconv.FormatInt(revision, 10)+`}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Recorded ` +
		template.HTMLEscapeString(t.Merchant) + ` — ` +
		template.HTMLEscapeString(core.FormatCents(t.Amount.Cents)) + `</div>`))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	index, err := strconv.Atoi(strings.TrimSpace(r.Form.Get("index")))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid transaction index</div>`))
		return
	}

	// An index that no longer exists is fine: the entry was already gone.
	deleted := s.svc.DeleteTransaction(r.Context(), index)

	_, revision := s.svc.Snapshot()
	w.Header().Set("HX-Trigger", `{"ledger:changed": {"revision": `+strconv.FormatInt(revision, 10)+`}}`)
	w.WriteHeader(http.StatusOK)
	if deleted {
		_, _ = w.Write([]byte(`<div class="success">Transaction removed</div>`))
	} else {
		_, _ = w.Write([]byte(`<div class="success">Nothing to remove</div>`))
	}
}

type stateTransaction struct {
	Merchant    string `json:"merchant"`
	AmountCents int64  `json:"amount_cents"`
	Note        string `json:"note,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	TimeOfDay   string `json:"time_of_day"`
}

type stateResponse struct {
	Day                 string             `json:"day"`
	Revision            int64              `json:"revision"`
	StartingBudgetCents int64              `json:"starting_budget_cents"`
	SpentCents          int64              `json:"spent_cents"`
	BalanceCents        int64              `json:"balance_cents"`
	Transactions        []stateTransaction `json:"transactions"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	l, revision := s.svc.Snapshot()
	resp := stateResponse{
		Day:                 s.svc.Today(),
		Revision:            revision,
		StartingBudgetCents: l.StartingBudgetCents,
		SpentCents:          l.SpentCents(),
		BalanceCents:        l.BalanceCents(),
		Transactions:        make([]stateTransaction, 0, len(l.Transactions)),
	}
	for _, t := range l.Transactions {
		st := stateTransaction{
			Merchant:    t.Merchant,
			AmountCents: t.Amount.Cents,
			Note:        t.Note,
			TimeOfDay:   string(t.TimeOfDay()),
		}
		if !t.Timestamp.IsZero() {
			st.Timestamp = t.Timestamp.Format(time.RFC3339)
		}
		resp.Transactions = append(resp.Transactions, st)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.ErrorContext(r.Context(), "State encode error", "error", err)
	}
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	l, _ := s.svc.Snapshot()
	matches := suggest.Suggest(l.Transactions, r.URL.Query().Get("q"))
	if matches == nil {
		matches = []string{}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(matches); err != nil {
		slog.ErrorContext(r.Context(), "Suggestions encode error", "error", err)
	}
}

// handleReport serves the plain-text report, or the mailto: link for it when
// ?link=mailto is given. Rendered text is cached per day+revision.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	text := s.renderReport(r)

	if r.URL.Query().Get("link") == "mailto" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(report.MailtoLink(report.Subject(s.svc.Now()), text)))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func (s *Server) renderReport(r *http.Request) string {
	l, revision := s.svc.Snapshot()
	key := fmt.Sprintf("%s#%d", s.svc.Today(), revision)

	if text, found := s.reportCache.Get(key); found {
		slog.DebugContext(r.Context(), "Report cache hit", "key", key)
		return text
	}

	text := report.Format(l, s.svc.Now())
	s.reportCache.Set(key, text)
	return text
}

// sanitizeInput removes potentially dangerous characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	// Remove control characters except tab, newline, carriage return
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
