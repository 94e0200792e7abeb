/*
Package api
File: codec.go
Description:
    The websocket wire format. Every frame is a JSON envelope carrying a
    message type and a raw payload, decoded in two steps: first the envelope,
    then the payload into the struct its type calls for.
*/

package api

import (
	"encoding/json"
	"fmt"
)

// Outbound message types.
const (
	MsgWelcome     = "welcome"
	MsgState       = "state"
	MsgAchievement = "achievement"
	MsgPurchase    = "purchase"
	MsgError       = "error"
)

// Inbound message types.
const (
	MsgClick      = "click"
	MsgBuyUpgrade = "buy_upgrade"
	MsgReset      = "reset"
	MsgSync       = "sync"
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"` // raw payload bytes
}

// WelcomePayload is sent once to a freshly connected client.
type WelcomePayload struct {
	ClientID string `json:"client_id"`
}

// ErrorPayload reports a rejected command to the client that sent it.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Encode wraps a payload in an envelope of type t.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("encode: empty envelope type")
	}
	if payload == nil {
		return nil, fmt.Errorf("encode %q: nil payload", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

// DecodeEnvelope reads the outer envelope without touching the payload.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("decode: empty frame")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("decode: envelope without type")
	}
	return e, nil
}

// DecodePayload unmarshals the envelope payload into T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}
