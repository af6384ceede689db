package share

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		userID  string
		want    string
		wantErr error
	}{
		{name: "default base", userID: "42", want: "https://t.me/SkyDragonVPNBot?start=42"},
		{name: "custom base", base: "https://t.me/OtherBot", userID: "7", want: "https://t.me/OtherBot?start=7"},
		{name: "escaped", userID: "a b", want: "https://t.me/SkyDragonVPNBot?start=a+b"},
		{name: "missing user", userID: "  ", wantErr: ErrMissingUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LinkBuilder{Base: tt.base}.Link(tt.userID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShareURL(t *testing.T) {
	got := ShareURL("https://t.me/SkyDragonVPNBot?start=42", "Join me")
	assert.True(t, strings.HasPrefix(got, "https://t.me/share/url?"))
	assert.Contains(t, got, "url=https%3A%2F%2Ft.me%2FSkyDragonVPNBot%3Fstart%3D42")
	assert.Contains(t, got, "text=Join+me")
}

func TestQRCode(t *testing.T) {
	qr, err := QRCode("https://t.me/SkyDragonVPNBot?start=42")
	require.NoError(t, err)
	assert.Greater(t, strings.Count(qr, "\n"), 10)
}
