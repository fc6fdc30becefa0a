package statement

import (
	"testing"
	"time"

	"github.com/granadev/grana/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name         string
		token        string
		want         string
		wantNegative bool
		wantErr      bool
	}{
		{
			name:  "brazilian with thousands dot",
			token: "1.234,56",
			want:  "1234.56",
		},
		{
			name:  "brazilian millions",
			token: "1.234.567,89",
			want:  "1234567.89",
		},
		{
			name:  "comma decimal no thousands",
			token: "15,50",
			want:  "15.50",
		},
		{
			name:  "plain decimal passes through",
			token: "1234.56",
			want:  "1234.56",
		},
		{
			name:  "multiple dots are thousands separators",
			token: "1.234.567",
			want:  "1234567",
		},
		{
			name:  "bare integer",
			token: "250",
			want:  "250",
		},
		{
			name:  "multiple commas keep the last as decimal point",
			token: "1,234,567.89",
			want:  "1234567.89",
		},
		{
			name:         "negative sign",
			token:        "-15,50",
			want:         "15.50",
			wantNegative: true,
		},
		{
			name:  "explicit plus sign",
			token: "+3.000,00",
			want:  "3000.00",
		},
		{
			name:  "currency prefix stripped",
			token: "R$ 1.234,56",
			want:  "1234.56",
		},
		{
			name:         "currency prefix with negative",
			token:        "R$ -99,90",
			want:         "99.90",
			wantNegative: true,
		},
		{
			name:  "dollar prefix",
			token: "$1,234.56",
			want:  "1234.56",
		},
		{
			name:  "internal whitespace removed",
			token: " 1 234,56 ",
			want:  "1234.56",
		},
		{
			name:    "empty token",
			token:   "",
			wantErr: true,
		},
		{
			name:    "only currency marker",
			token:   "R$",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, negative, err := NormalizeAmount(tt.token)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantNegative, negative)
		})
	}
}

func TestNormalizeAmountIdempotent(t *testing.T) {
	// Re-normalizing canonical output must not change it.
	for _, token := range []string{"1.234,56", "15,50", "1234.56", "250", "-3.000,00"} {
		first, _, err := NormalizeAmount(token)
		require.NoError(t, err)
		second, _, err := NormalizeAmount(first)
		require.NoError(t, err)
		assert.Equal(t, first, second, "token %q", token)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		want     string
		wantKind model.TransactionKind
	}{
		{name: "negative is expense", token: "-15,50", want: "15.5", wantKind: model.KindExpense},
		{name: "positive is income", token: "3.000,00", want: "3000", wantKind: model.KindIncome},
		{name: "plain negative", token: "-1234.56", want: "1234.56", wantKind: model.KindExpense},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, kind, err := ParseAmount(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.want, amount.String())
			assert.False(t, amount.IsNegative())
		})
	}

	t.Run("garbage token", func(t *testing.T) {
		_, _, err := ParseAmount("abc")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("04/01/2024")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.January, 4, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("day and month are not swapped", func(t *testing.T) {
		got, err := ParseDate("05/03/2024")
		require.NoError(t, err)
		assert.Equal(t, time.March, got.Month())
		assert.Equal(t, 5, got.Day())
	})

	t.Run("impossible date", func(t *testing.T) {
		_, err := ParseDate("31/02/2024")
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("wrong layout", func(t *testing.T) {
		_, err := ParseDate("2024-01-04")
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}
