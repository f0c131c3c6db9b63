package domain

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/Vovarama1992/saga_tts/internal/ports"
)

type s3Service struct {
	client ports.S3Client
	prefix string
	now    func() time.Time
}

func NewS3Service(client ports.S3Client, prefix string) ports.S3Service {
	return &s3Service{
		client: client,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
	}
}

// ObjectKey builds <prefix>/<date>/tts_<unix millis>_<Character_Name>_<short id>.mp3
func (s *s3Service) ObjectKey(character string, at time.Time) string {
	name := fmt.Sprintf("tts_%d_%s_%s.mp3",
		at.UnixMilli(),
		slug(character),
		uuid.NewString()[:8],
	)
	return path.Join(s.prefix, at.UTC().Format("2006-01-02"), name)
}

func (s *s3Service) SaveAudio(ctx context.Context, character string, audio []byte, contentType string) (string, error) {
	key := s.ObjectKey(character, s.now())
	return s.client.PutObject(ctx, key, bytes.NewReader(audio), int64(len(audio)), contentType)
}

func slug(character string) string {
	joined := strings.Join(strings.Fields(character), "_")
	out := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			return r
		}
		return -1
	}, joined)
	if out == "" {
		return "character"
	}
	return out
}
