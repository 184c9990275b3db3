package numerator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCounters struct {
	values map[string]int64
}

func (m *memCounters) NextValue(_ context.Context, sequence string, period int) (int64, error) {
	if m.values == nil {
		m.values = make(map[string]int64)
	}
	key := sequence + "/" + time.Date(period, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
	m.values[key]++
	return m.values[key], nil
}

func TestGetNextNumber_Format(t *testing.T) {
	svc := NewService(&memCounters{})
	at := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	number, err := svc.GetNextNumber(context.Background(), DefaultConfig("ASN"), at)
	require.NoError(t, err)
	assert.Equal(t, "ASN-2026-00001", number)

	number, err = svc.GetNextNumber(context.Background(), DefaultConfig("ASN"), at)
	require.NoError(t, err)
	assert.Equal(t, "ASN-2026-00002", number)
}

func TestGetNextNumber_SequencesAreIndependentPerPrefixAndYear(t *testing.T) {
	svc := NewService(&memCounters{})
	in2026 := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	in2027 := time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC)

	a, err := svc.GetNextNumber(context.Background(), DefaultConfig("ASN"), in2026)
	require.NoError(t, err)
	b, err := svc.GetNextNumber(context.Background(), DefaultConfig("DN"), in2026)
	require.NoError(t, err)
	c, err := svc.GetNextNumber(context.Background(), DefaultConfig("ASN"), in2027)
	require.NoError(t, err)

	assert.Equal(t, "ASN-2026-00001", a)
	assert.Equal(t, "DN-2026-00001", b)
	assert.Equal(t, "ASN-2027-00001", c)
}
