package wizard

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
)

var ErrFileTooLarge = errors.New("file too large")

// File is one selected attachment before encoding.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Encoder turns an accepted file into the string stored in report.attachments.
type Encoder interface {
	Encode(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// InlineEncoder embeds the file as a base64 data URL.
type InlineEncoder struct{}

func (InlineEncoder) Encode(_ context.Context, _ string, contentType string, data []byte) (string, error) {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// TooLargeError names the rejected file.
type TooLargeError struct {
	Name     string
	Size     int
	MaxBytes int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("El fitxer %q és massa gran (màxim %dKB). Si us plau, redueix la mida o fes una captura de pantalla.",
		e.Name, e.MaxBytes/1024)
}

func (e *TooLargeError) Unwrap() error { return ErrFileTooLarge }

// ProcessFiles size-checks and encodes files in order. Rejected or failed files are
// reported in errs and left out of encoded.
func ProcessFiles(ctx context.Context, enc Encoder, files []File, maxBytes int64) (encoded []string, errs []error) {
	for _, file := range files {
		if int64(len(file.Data)) > maxBytes {
			errs = append(errs, &TooLargeError{Name: file.Name, Size: len(file.Data), MaxBytes: maxBytes})
			continue
		}
		out, err := enc.Encode(ctx, file.Name, file.ContentType, file.Data)
		if err != nil {
			errs = append(errs, fmt.Errorf("process %q: %w", file.Name, err))
			continue
		}
		encoded = append(encoded, out)
	}
	return encoded, errs
}
