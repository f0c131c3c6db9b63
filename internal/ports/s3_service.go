package ports

import (
	"context"
	"time"
)

type S3Service interface {
	ObjectKey(character string, at time.Time) string
	SaveAudio(ctx context.Context, character string, audio []byte, contentType string) (string, error)
}
