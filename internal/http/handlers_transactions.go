package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"mobiflow/internal/core"
)

type transactionResponse struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	Amount        int64  `json:"amount"`
	AmountDisplay string `json:"amount_display"`
	Type          string `json:"type"`
	Category      string `json:"category"`
	CategoryColor string `json:"category_color"`
	CategoryIcon  string `json:"category_icon"`
	CreatedAt     string `json:"created_at,omitempty"`
	DateDisplay   string `json:"date_display"`
}

func (s *Server) transactionToResponse(tx core.Transaction, now time.Time) transactionResponse {
	cfg := core.GetCategoryConfig(tx.Category)
	resp := transactionResponse{
		ID:            tx.ID,
		Label:         tx.Label,
		Amount:        tx.Amount,
		AmountDisplay: core.FormatRWFWithSign(tx.Amount, false),
		Type:          string(tx.Type),
		Category:      tx.Category,
		CategoryColor: cfg.Color,
		CategoryIcon:  cfg.Icon,
		DateDisplay:   core.FormatTransactionDate(tx.CreatedAt, now),
	}
	if tx.HasDate() {
		resp.CreatedAt = tx.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

func (s *Server) transactionsToResponse(list []core.Transaction, now time.Time) []transactionResponse {
	out := make([]transactionResponse, 0, len(list))
	for _, tx := range list {
		out = append(out, s.transactionToResponse(tx, now))
	}
	return out
}

// handleListTransactions returns the user's transactions newest first,
// optionally narrowed by ?filter=income|expense and ?search=.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	tab := core.FilterAll
	if v := r.URL.Query().Get("filter"); v != "" {
		tab = core.FilterTab(v)
		if !tab.IsValid() {
			BadRequestError("filter must be one of all, income, expense").Write(w)
			return
		}
	}

	list, err := s.store.ListTransactions(r.Context(), session.UserID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions error", "error", err, "user_id", session.UserID)
		InternalServerError("could not load transactions").Write(w)
		return
	}

	filtered := core.FilterTransactions(list, tab, r.URL.Query().Get("search"))

	NewJSONResponse().Body(struct {
		Transactions []transactionResponse `json:"transactions"`
	}{
		Transactions: s.transactionsToResponse(filtered, s.now()),
	}).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	amount, err := core.ParseRWF(parser.Get("amount"))
	if err != nil {
		UnprocessableEntityError("amount must be a positive whole number").Write(w)
		return
	}

	in := core.CreateTransactionInput{
		Label:    parser.Get("label"),
		Amount:   amount,
		Type:     core.TransactionType(parser.Get("type")),
		Category: parser.Get("category"),
	}

	tx, err := s.txs.CreateTransaction(r.Context(), session.UserID, in)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyLabel):
			UnprocessableEntityError("label is required").Write(w)
		case errors.Is(err, core.ErrInvalidAmount):
			UnprocessableEntityError("amount must be a positive whole number").Write(w)
		case errors.Is(err, core.ErrInvalidType):
			UnprocessableEntityError("type must be income or expense").Write(w)
		case errors.Is(err, core.ErrEmptyCategory):
			UnprocessableEntityError("category is required").Write(w)
		default:
			slog.ErrorContext(r.Context(), "Create transaction error", "error", err, "user_id", session.UserID)
			InternalServerError("could not save transaction").Write(w)
		}
		return
	}

	s.invalidateUserCaches(session.UserID)
	s.structLog.LogTransactionCreated(r.Context(), tx.ID, tx.Label, tx.Amount, string(tx.Type), tx.Category)

	NewJSONResponse().Status(http.StatusCreated).Body(struct {
		Transaction transactionResponse `json:"transaction"`
	}{
		Transaction: s.transactionToResponse(tx, s.now()),
	}).Write(w)
}

// handleTransactionStream pushes the user's full list as a server-sent
// event on every change, starting with the current snapshot. A read
// failure on the store side arrives as an empty list.
func (s *Server) handleTransactionStream(w http.ResponseWriter, r *http.Request) {
	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		InternalServerError("streaming unsupported").Write(w)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Serialize writes; pushes come from whichever goroutine mutated the store.
	events := make(chan []core.Transaction, 8)
	unsubscribe := s.store.SubscribeTransactions(session.UserID,
		func(list []core.Transaction) {
			select {
			case events <- list:
			default:
				// Client is too slow, drop this snapshot. The next one carries
				// the full state anyway.
			}
		},
		func(err error) {
			slog.Error("Transaction stream error", "error", err, "user_id", session.UserID)
		})
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case list := <-events:
			payload, err := json.Marshal(struct {
				Transactions []transactionResponse `json:"transactions"`
			}{
				Transactions: s.transactionsToResponse(list, s.now()),
			})
			if err != nil {
				slog.Error("Stream encode error", "error", err, "user_id", session.UserID)
				continue
			}
			if _, err := w.Write([]byte("data: ")); err != nil {
				return
			}
			if _, err := w.Write(payload); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// handleIngestSMS queues a raw mobile-money notification for the worker.
func (s *Server) handleIngestSMS(w http.ResponseWriter, r *http.Request) {
	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	if s.smsPub == nil {
		ServiceUnavailableError("SMS ingestion is not configured").Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	body := parser.Get("body")
	if body == "" {
		UnprocessableEntityError("body is required").Write(w)
		return
	}

	if err := s.smsPub.PublishSMS(r.Context(), session.UserID, parser.Get("sender"), body); err != nil {
		slog.ErrorContext(r.Context(), "SMS publish error", "error", err, "user_id", session.UserID)
		ServiceUnavailableError("could not queue SMS").Write(w)
		return
	}

	NewJSONResponse().Status(http.StatusAccepted).Write(w)
}
