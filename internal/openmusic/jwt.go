package openmusic

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type TokenClaims struct {
	Username  string `json:"uid"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

func (s *Server) issueTokens(username string) (AuthTokens, error) {
	now := time.Now()

	access, err := s.signToken(username, tokenTypeAccess, now, s.cfg.AccessTTL)
	if err != nil {
		return AuthTokens{}, err
	}
	refresh, err := s.signToken(username, tokenTypeRefresh, now, s.cfg.RefreshTTL)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Server) signAccessToken(username string) (string, error) {
	return s.signToken(username, tokenTypeAccess, time.Now(), s.cfg.AccessTTL)
}

func (s *Server) signToken(username, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	claims := &TokenClaims{
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.JWTSecret)
}

func (s *Server) parseToken(raw, wantType string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.cfg.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != wantType {
		return nil, errors.New("unexpected token type")
	}
	return claims, nil
}
