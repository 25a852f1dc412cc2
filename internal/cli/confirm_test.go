package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmer_Confirm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    bool
		wantErr error
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "long yes", input: "YES\n", want: true},
		{name: "sim", input: "sim\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty means no", input: "\n", want: false},
		{name: "retry after invalid", input: "maybe\ny\n", want: true},
		{name: "yes without newline", input: "y", want: true},
		{name: "end of input", input: "", wantErr: ErrNoAnswer},
		{name: "invalid then end of input", input: "maybe\n", wantErr: ErrNoAnswer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := NewConfirmer(strings.NewReader(tt.input), &out)

			got, err := c.Confirm(context.Background(), "Save?")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Save?")
		})
	}
}

func TestConfirmer_RetryPrintsHint(t *testing.T) {
	var out bytes.Buffer
	c := NewConfirmer(strings.NewReader("maybe\nn\n"), &out)

	got, err := c.Confirm(context.Background(), "Save?")
	require.NoError(t, err)
	assert.False(t, got)
	assert.Contains(t, out.String(), "Please answer y or n.")
	assert.Equal(t, 2, strings.Count(out.String(), "Save?"))
}

func TestConfirmer_Canceled(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewConfirmer(pr, io.Discard).Confirm(ctx, "Save?")
	assert.ErrorIs(t, err, ErrInputCancelled)
}
