package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadProgress(t *testing.T) {
	var out bytes.Buffer
	progress := UploadProgress(&out)

	w := progress(100, "nota.pdf")
	require.NotNil(t, w)

	n, err := w.Write(bytes.Repeat([]byte("x"), 100))
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.Contains(t, out.String(), "Uploading nota.pdf")
}

func TestUploadProgress_NilWriter(t *testing.T) {
	assert.Nil(t, UploadProgress(nil)(100, "nota.pdf"))
}
