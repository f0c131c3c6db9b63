// Package voices keeps the character → voice assignments of a running relay
// and the policy that picks a voice for a character seen for the first time.
package voices

import (
	"errors"
	"strings"
	"unicode"
)

var (
	// ErrInvalidInput is returned for an empty character name or a malformed voice ID.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConfiguration is returned when the configured voice pool cannot serve a request.
	ErrConfiguration = errors.New("voice configuration error")
	// ErrInvalidPayload is returned by imports that are not a flat string → string object.
	ErrInvalidPayload = errors.New("invalid voice mapping")
)

type Gender string

const (
	Male    Gender = "male"
	Female  Gender = "female"
	Neutral Gender = "neutral"
)

// Assignment is the outcome of a policy decision.
type Assignment struct {
	Voice    string
	Gender   Gender // set in gender mode only
	Reserved bool
}

// Normalize turns a character name into its registry key.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

const maxVoiceIDLen = 128

// ValidVoiceID reports whether id can be sent to a provider as a voice name:
// letters, digits, '_' and '-' only. Provider clients put it in URL paths.
func ValidVoiceID(id string) bool {
	if id == "" || len(id) > maxVoiceIDLen {
		return false
	}
	for _, r := range id {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return false
		}
	}
	return true
}
