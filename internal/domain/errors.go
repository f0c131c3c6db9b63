package domain

import "errors"

var (
	ErrMissingField    = errors.New("missing required field")
	ErrSynthesisFailed = errors.New("speech synthesis failed")
	ErrStorageFailed   = errors.New("audio storage failed")
)
