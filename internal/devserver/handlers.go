package devserver

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"paylink/internal/crypto"
	"paylink/internal/domain"
)

const maxLimit = 100

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}
	s.mu.Lock()
	acct := s.accounts[strings.ToLower(strings.TrimSpace(req.Email))]
	s.mu.Unlock()
	if acct == nil || subtle.ConstantTimeCompare([]byte(acct.password), []byte(req.Password)) != 1 {
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}
	dev := deviceFrom(r.Context())
	tok, err := s.issueToken(acct.user.ID, dev.id)
	if err != nil {
		s.log.Error().Err(err).Msg("issue token")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}
	s.writeSealed(w, r, domain.LoginResult{Token: tok, User: acct.user}, nil)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if id, _ := r.Context().Value(ctxTokenID).(string); id != "" {
		s.mu.Lock()
		s.revoked[id] = struct{}{}
		s.mu.Unlock()
	}
	s.writeSealed(w, r, map[string]bool{"loggedOut": true}, nil)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.writeSealed(w, r, accountFrom(r.Context()).user, nil)
}

func (s *Server) handleWallets(w http.ResponseWriter, r *http.Request) {
	s.writeSealed(w, r, accountFrom(r.Context()).wallets, nil)
}

func (s *Server) handleSenders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := domain.StatusKey(strings.ToUpper(q.Get("status")))
	page, err1 := intParam(q.Get("page"), 1)
	limit, err2 := intParam(q.Get("limit"), 10)
	if err1 != nil || err2 != nil || page < 1 || limit < 1 || limit > maxLimit {
		writeError(w, http.StatusBadRequest, "BAD_QUERY", "Invalid page or limit")
		return
	}
	items, pg := pageOf(accountFrom(r.Context()).senders, status, page, limit)
	s.writeSealed(w, r, items, &pg)
}

func (s *Server) handleSender(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	for _, snd := range accountFrom(r.Context()).senders {
		if snd.ID == id {
			s.writeSealed(w, r, snd, nil)
			return
		}
	}
	writeError(w, http.StatusNotFound, "NOT_FOUND", "Sender not found")
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// writeSealed encrypts payload to the requesting device and writes a
// SUCCESS envelope.
func (s *Server) writeSealed(w http.ResponseWriter, r *http.Request, payload any, pg *domain.Pagination) {
	plain, err := json.Marshal(payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}
	data, hs, err := crypto.Seal(deviceFrom(r.Context()).pub, plain)
	if err != nil {
		s.log.Error().Err(err).Msg("seal response")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}
	switch s.currentFault() {
	case FaultDropHandshake:
		hs = ""
	case FaultCorruptData:
		data = corrupt(data)
	}
	writeJSON(w, http.StatusOK, domain.Envelope{
		Status:     domain.StatusSuccess,
		Data:       data,
		Handshake:  hs,
		Pagination: pg,
	})
}

func corrupt(data string) string {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil || len(raw) == 0 {
		return data
	}
	raw[len(raw)-1] ^= 0xff
	return base64.StdEncoding.EncodeToString(raw)
}

func writeError(w http.ResponseWriter, code int, errCode, msg string) {
	writeJSON(w, code, domain.Envelope{Status: domain.StatusError, Error: errCode, Message: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
