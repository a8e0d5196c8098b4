package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	UploadImage    = "image"
	UploadVideo    = "video"
	UploadResource = "resource"
)

type uploadRule struct {
	maxBytes int64
	exts     map[string]struct{}
}

func extSet(exts ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		m[e] = struct{}{}
	}
	return m
}

var uploadRules = map[string]uploadRule{
	UploadImage:    {maxBytes: 4 << 20, exts: extSet(".jpg", ".jpeg", ".png", ".webp", ".gif")},
	UploadVideo:    {maxBytes: 512 << 20, exts: extSet(".mp4", ".mov", ".webm", ".mkv")},
	UploadResource: {maxBytes: 16 << 20, exts: nil}, // любые файлы
}

var (
	ErrUploadKind     = errors.New("неизвестный тип загрузки")
	ErrUploadTooLarge = errors.New("файл слишком большой")
	ErrUploadType     = errors.New("недопустимый тип файла")
)

// MaxUploadBytes: предел тела запроса для самого крупного вида загрузки.
func MaxUploadBytes() int64 { return uploadRules[UploadVideo].maxBytes }

// InlineUpload: файл можно показывать в браузере (картинки и видео курса).
// Остальное, включая материалы разделов, отдаётся на скачивание.
func InlineUpload(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, kind := range []string{UploadImage, UploadVideo} {
		if _, ok := uploadRules[kind].exts[ext]; ok {
			return true
		}
	}
	return false
}

// UploadService сохраняет загруженные файлы на диск и выдаёт публичные ссылки.
type UploadService struct {
	dir       string
	publicURL string
}

func NewUploadService(dir, publicURL string) *UploadService {
	return &UploadService{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}
}

func (s *UploadService) Dir() string { return s.dir }

// Save проверяет вид, размер и расширение, сохраняет файл под uuid-именем и возвращает его URL.
func (s *UploadService) Save(kind, filename string, size int64, src io.Reader) (string, error) {
	rule, ok := uploadRules[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUploadKind, kind)
	}
	if size > rule.maxBytes {
		return "", fmt.Errorf("%w: максимум %d МБ", ErrUploadTooLarge, rule.maxBytes>>20)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if rule.exts != nil {
		if _, ok := rule.exts[ext]; !ok {
			return "", fmt.Errorf("%w: %s", ErrUploadType, ext)
		}
	}

	if err := os.MkdirAll(s.dir, os.ModePerm); err != nil {
		return "", err
	}
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	// size из заголовка части может врать
	n, err := io.Copy(dst, io.LimitReader(src, rule.maxBytes+1))
	if err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}
	if n > rule.maxBytes {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("%w: максимум %d МБ", ErrUploadTooLarge, rule.maxBytes>>20)
	}

	return s.publicURL + "/uploads/" + name, nil
}
