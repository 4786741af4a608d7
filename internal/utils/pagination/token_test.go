package pagination_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openacct/openacct/internal/utils/pagination"
)

func TestTokenRoundTrip(t *testing.T) {
	date := time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)

	token := pagination.EncodeToken(date, 7)
	gotDate, gotNo, err := pagination.DecodeToken(token)

	require.NoError(t, err)
	assert.True(t, date.Equal(gotDate))
	assert.Equal(t, 7, gotNo)
}

func TestDecodeTokenRejectsGarbage(t *testing.T) {
	_, _, err := pagination.DecodeToken("not-base64!!")
	assert.Error(t, err)

	_, _, err = pagination.DecodeToken("bm8tc2VwYXJhdG9y") // "no-separator"
	assert.Error(t, err)

	_, _, err = pagination.DecodeToken(pagination.EncodeToken(time.Now(), 1)[:4])
	assert.Error(t, err)
}
