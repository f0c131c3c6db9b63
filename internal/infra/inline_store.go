package infra

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/Vovarama1992/saga_tts/internal/ports"
)

// inlineStore keeps nothing: the returned URL is a data: URL carrying the
// audio itself. Meant for local runs and hosts without object storage.
type inlineStore struct{}

func NewInlineStore() ports.S3Client {
	return inlineStore{}
}

func (inlineStore) PutObject(_ context.Context, _ string, r io.Reader, _ int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (inlineStore) Ping(context.Context) error {
	return nil
}
