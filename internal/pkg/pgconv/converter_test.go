//go:build unit

package pgconv_test

import (
	"math"
	"testing"

	"order-service/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "19.99", "1200.50", "0.01"} {
		t.Run(s, func(t *testing.T) {
			d := decimal.RequireFromString(s)

			got, err := pgconv.DecimalFromNumeric(pgconv.DecimalToNumeric(d))

			require.NoError(t, err)
			assert.True(t, d.Equal(got), "want %s got %s", d, got)
		})
	}
}

func TestDecimalFromNumeric_Invalid(t *testing.T) {
	_, err := pgconv.DecimalFromNumeric(pgtype.Numeric{})
	assert.ErrorIs(t, err, pgconv.ErrInvalidNumericValue)

	_, err = pgconv.DecimalFromNumeric(pgtype.Numeric{NaN: true, Valid: true})
	assert.ErrorIs(t, err, pgconv.ErrInvalidNumericValue)
}

func TestIntToInt32(t *testing.T) {
	v, err := pgconv.IntToInt32(42)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)

	_, err = pgconv.IntToInt32(math.MaxInt32 + 1)
	assert.ErrorIs(t, err, pgconv.ErrInt32Overflow)
}
