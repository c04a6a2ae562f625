package services

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	paramShared = "shared"
	paramScore  = "score"
	paramLevel  = "level"
	paramFrom   = "from"
	paramSig    = "sig"
)

var shareParams = []string{paramShared, paramScore, paramLevel, paramFrom, paramSig}

// SharedPayload is what a share link carries about someone else's result.
type SharedPayload struct {
	Score    int    `json:"score"`
	Level    string `json:"level"`
	FromName string `json:"fromName,omitempty"`
}

// ShareCodec writes and reads share parameters on a page query. With a nil
// Signer links are plain; otherwise a sig parameter is required.
type ShareCodec struct {
	Signer *ShareSigner
}

// Encode returns a copy of query carrying the share parameters for r.
func (c ShareCodec) Encode(query url.Values, r DiagnosticResult, from string) url.Values {
	out := ClearShareParams(query)
	out.Set(paramShared, "true")
	out.Set(paramScore, strconv.Itoa(r.TotalScore))
	out.Set(paramLevel, r.Level)
	from = strings.TrimSpace(from)
	if from != "" {
		out.Set(paramFrom, from)
	}
	if c.Signer != nil {
		if sig, err := c.Signer.Sign(SharedPayload{Score: r.TotalScore, Level: r.Level, FromName: from}); err == nil {
			out.Set(paramSig, sig)
		}
	}
	return out
}

// Decode parses a share payload; ok is false for anything partial or malformed.
func (c ShareCodec) Decode(query url.Values) (*SharedPayload, bool) {
	if query == nil || query.Get(paramShared) != "true" {
		return nil, false
	}
	score, err := strconv.Atoi(strings.TrimSpace(query.Get(paramScore)))
	if err != nil || score < 0 {
		return nil, false
	}
	level := strings.TrimSpace(query.Get(paramLevel))
	if level == "" {
		return nil, false
	}
	p := &SharedPayload{Score: score, Level: level, FromName: strings.TrimSpace(query.Get(paramFrom))}
	if c.Signer != nil && !c.Signer.Verify(query.Get(paramSig), *p) {
		return nil, false
	}
	return p, true
}

// ClearShareParams returns a copy of query without any share parameter.
func ClearShareParams(query url.Values) url.Values {
	out := url.Values{}
	for k, v := range query {
		out[k] = append([]string(nil), v...)
	}
	for _, k := range shareParams {
		out.Del(k)
	}
	return out
}
