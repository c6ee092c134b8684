package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendingtracker/internal/encoding"
)

func decode(t *testing.T, input []byte) (string, string) {
	t.Helper()

	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), charset
}

func TestNewUTF8Reader(t *testing.T) {
	tests := []struct {
		name        string
		input       []byte
		want        string
		wantCharset string
	}{
		{
			name:        "UTF8Passthrough",
			input:       []byte("date,name,amount\n2026-01-02,Café,12.50\n"),
			want:        "date,name,amount\n2026-01-02,Café,12.50\n",
			wantCharset: encoding.UTF8,
		},
		{
			name: "Windows1252",
			input: []byte{
				'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', ';',
				'M', 'o', 'n', 't', 'a', 'n', 't', 'e', '\n',
			},
			want: "Descrição;Montante\n",
		},
		{
			name:        "UTF8BOMStripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, []byte("name;amount\n")...),
			want:        "name;amount\n",
			wantCharset: encoding.UTF8,
		},
		{
			name:        "UTF16LE",
			input:       []byte{0xFF, 0xFE, 'o', 0, 'k', 0, '\n', 0},
			want:        "ok\n",
			wantCharset: encoding.UTF16LE,
		},
		{
			name:        "Empty",
			input:       nil,
			want:        "",
			wantCharset: encoding.UTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, charset := decode(t, tt.input)

			assert.Equal(t, tt.want, got)

			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, charset)
			}
		})
	}
}

func TestNewUTF8Reader_RuneAcrossSniffWindow(t *testing.T) {
	// Push a two-byte rune across the 4096 byte peek boundary.
	input := strings.Repeat("a", 4095) + "é;tail\n"

	got, charset := decode(t, []byte(input))

	assert.Equal(t, encoding.UTF8, charset)
	assert.Equal(t, input, got)
}
