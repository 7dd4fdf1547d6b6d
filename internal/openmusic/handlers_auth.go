package openmusic

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func (s *Server) handlePostUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Fullname string `json:"fullname"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Username = strings.TrimSpace(strings.ToLower(body.Username))
	body.Fullname = strings.TrimSpace(body.Fullname)
	if body.Username == "" || len(body.Username) > 50 {
		writeError(w, http.StatusBadRequest, "username must be between 1 and 50 characters")
		return
	}
	if body.Fullname == "" {
		writeError(w, http.StatusBadRequest, "fullname is required")
		return
	}
	if len(body.Password) < 6 {
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("openmusic: register hash: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	id, err := s.store.AddUser(ctx, body.Username, string(hash), body.Fullname)
	if err != nil {
		writeServiceError(w, "register user", err)
		return
	}

	writeSuccess(w, http.StatusCreated, "user registered", map[string]any{"userId": id})
}

func (s *Server) handlePostAuthentication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	body.Username = strings.TrimSpace(strings.ToLower(body.Username))
	if body.Username == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := s.store.GetUserByUsername(ctx, body.Username)
	if err != nil {
		var nf *notFoundError
		if errors.As(err, &nf) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeServiceError(w, "login fetch user", err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	tokens, err := s.issueTokens(user.Username)
	if err != nil {
		log.Printf("openmusic: login issue tokens: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := s.store.AddRefreshToken(ctx, tokens.RefreshToken); err != nil {
		writeServiceError(w, "login store refresh token", err)
		return
	}

	writeSuccess(w, http.StatusCreated, "authentication added", tokens)
}

// handlePutAuthentication rotates the access token for a registered refresh
// token.
func (s *Server) handlePutAuthentication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	ok, err := s.store.HasRefreshToken(ctx, body.RefreshToken)
	if err != nil {
		writeServiceError(w, "refresh lookup", err)
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "refresh token not registered")
		return
	}

	claims, err := s.parseToken(body.RefreshToken, tokenTypeRefresh)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid refresh token")
		return
	}

	access, err := s.signAccessToken(claims.Username)
	if err != nil {
		log.Printf("openmusic: refresh sign: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeSuccess(w, http.StatusOK, "access token renewed", map[string]any{"accessToken": access})
}

func (s *Server) handleDeleteAuthentication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	if err := s.store.DeleteRefreshToken(ctx, body.RefreshToken); err != nil {
		writeServiceError(w, "logout", err)
		return
	}

	writeSuccess(w, http.StatusOK, "refresh token deleted", nil)
}
