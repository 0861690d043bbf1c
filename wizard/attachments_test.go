package wizard

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxBytes = 200 * 1024

type failingEncoder struct{}

func (failingEncoder) Encode(context.Context, string, string, []byte) (string, error) {
	return "", errors.New("bucket unavailable")
}

func TestProcessFilesSizeThreshold(t *testing.T) {
	files := []File{
		{Name: "limit.png", ContentType: "image/png", Data: bytes.Repeat([]byte{1}, maxBytes)},
		{Name: "big.jpg", ContentType: "image/jpeg", Data: bytes.Repeat([]byte{1}, maxBytes+1)},
		{Name: "small.pdf", ContentType: "application/pdf", Data: []byte("%PDF")},
	}

	encoded, errs := ProcessFiles(context.Background(), InlineEncoder{}, files, maxBytes)

	require.Len(t, encoded, 2)
	assert.True(t, strings.HasPrefix(encoded[0], "data:image/png;base64,"))
	assert.Equal(t, "data:application/pdf;base64,JVBERg==", encoded[1])

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrFileTooLarge)
	assert.Contains(t, errs[0].Error(), "big.jpg")
}

func TestProcessFilesEncoderFailure(t *testing.T) {
	encoded, errs := ProcessFiles(context.Background(), failingEncoder{}, []File{{Name: "a.png", Data: []byte("x")}}, maxBytes)
	assert.Empty(t, encoded)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "a.png")
}

func TestInlineEncoderDetectsContentType(t *testing.T) {
	out, err := InlineEncoder{}.Encode(context.Background(), "note", "", []byte("hello"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "data:text/plain; charset=utf-8;base64,"))
}

func TestAttachmentAppearsOnce(t *testing.T) {
	f := newTestForm(t, nil)
	f.BeginUpload()
	encoded, _ := ProcessFiles(context.Background(), InlineEncoder{}, []File{{Name: "a.png", ContentType: "image/png", Data: []byte{1}}}, maxBytes)
	f.EndUpload(encoded)

	assert.Len(t, f.Data().Attachments, 1)
	assert.False(t, f.Uploading())
}
