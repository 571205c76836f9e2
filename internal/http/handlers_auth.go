package http

import (
	"log/slog"
	"net/http"
	"strings"

	"mobiflow/internal/auth"
	"mobiflow/internal/core"
)

type sessionResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	email := parser.Get("email")
	password := parser.Get("password")
	if email == "" || !strings.Contains(email, "@") {
		UnprocessableEntityError("a valid email is required").Write(w)
		return
	}

	session, err := s.provider.SignUp(r.Context(), email, password)
	if err != nil {
		writeAuthError(w, err, "Could not create account. Please try again.")
		return
	}

	s.finishSignIn(w, r, session, http.StatusCreated)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	session, err := s.provider.SignIn(r.Context(), parser.Get("email"), parser.Get("password"))
	if err != nil {
		writeAuthError(w, err, "Could not sign you in. Please try again.")
		return
	}

	s.finishSignIn(w, r, session, http.StatusOK)
}

func (s *Server) finishSignIn(w http.ResponseWriter, r *http.Request, session auth.Session, status int) {
	token, err := s.createSession(session)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create session", "error", err)
		InternalServerError("could not create session").Write(w)
		return
	}

	NewJSONResponse().Status(status).Body(sessionResponse{
		Token:  token,
		UserID: session.UserID,
		Email:  session.Email,
	}).Write(w)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		s.dropSession(token)
	}
	s.provider.SignOut()
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// handlePasswordRequirements reports which strength rules the candidate
// password satisfies, for live feedback while the user types.
func (s *Server) handlePasswordRequirements(w http.ResponseWriter, r *http.Request) {
	password := r.URL.Query().Get("password")
	reqs := core.GetPasswordRequirements(password)

	NewJSONResponse().Body(struct {
		MinLength    bool `json:"min_length"`
		HasUppercase bool `json:"has_uppercase"`
		HasLowercase bool `json:"has_lowercase"`
		HasNumber    bool `json:"has_number"`
		HasSpecial   bool `json:"has_special"`
		Strong       bool `json:"strong"`
	}{
		MinLength:    reqs.MinLength,
		HasUppercase: reqs.HasUppercase,
		HasLowercase: reqs.HasLowercase,
		HasNumber:    reqs.HasNumber,
		HasSpecial:   reqs.HasSpecial,
		Strong:       core.IsPasswordStrong(password),
	}).Write(w)
}

// writeAuthError maps auth failure codes to statuses and user-facing
// messages. Unknown failures surface the caller's fallback text.
func writeAuthError(w http.ResponseWriter, err error, fallback string) {
	code := auth.CodeOf(err)
	message := auth.Message(code, fallback)

	switch code {
	case auth.CodeInvalidCredential:
		UnauthorizedError(message).Write(w)
	case auth.CodeEmailInUse:
		ConflictError(message).Write(w)
	case auth.CodeWeakPassword:
		UnprocessableEntityError(message).Write(w)
	case auth.CodeTooManyRequests:
		TooManyRequestsError(message).Write(w)
	default:
		InternalServerError(message).Write(w)
	}
}
