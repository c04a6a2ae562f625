package services

import (
	"errors"

	jwt "github.com/golang-jwt/jwt/v5"
)

type shareClaims struct {
	Score int    `json:"score"`
	Level string `json:"level"`
	From  string `json:"from,omitempty"`
	jwt.RegisteredClaims
}

// ShareSigner makes share links tamper-evident with an HS256 token over the payload.
type ShareSigner struct {
	secret []byte
}

func NewShareSigner(secret []byte) (*ShareSigner, error) {
	if len(secret) < 16 {
		return nil, errors.New("share signing secret too short")
	}
	return &ShareSigner{secret: secret}, nil
}

func (s *ShareSigner) Sign(p SharedPayload) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, shareClaims{Score: p.Score, Level: p.Level, From: p.FromName})
	return token.SignedString(s.secret)
}

// Verify reports whether tok is a valid signature of exactly p.
func (s *ShareSigner) Verify(tok string, p SharedPayload) bool {
	if tok == "" {
		return false
	}
	var c shareClaims
	t, err := jwt.ParseWithClaims(tok, &c, func(token *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return false
	}
	return c.Score == p.Score && c.Level == p.Level && c.From == p.FromName
}
