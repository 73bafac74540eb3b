package symbology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panelprofits/symbology/internal/domain"
)

func yield(t *testing.T, v string) *domain.Decimal {
	t.Helper()
	d, err := domain.NewDecimalFromString(v)
	require.NoError(t, err)
	return &d
}

func TestFormatDerivative(t *testing.T) {
	testCases := []struct {
		name     string
		base     string
		kind     DerivativeKind
		params   DerivativeParams
		expected string
	}{
		{
			name:     "option with four digit year",
			base:     "AM",
			kind:     KindOption,
			params:   DerivativeParams{Month: "01", Year: "2025", CallPut: Call},
			expected: "AM.01.25.C",
		},
		{
			name:     "option default year",
			base:     "AM",
			kind:     KindOption,
			params:   DerivativeParams{Month: "06", CallPut: Put},
			expected: "AM.06.25.P",
		},
		{
			name:     "leap",
			base:     "BT",
			kind:     KindLeap,
			params:   DerivativeParams{Month: "12", Year: "2027", CallPut: Call},
			expected: "BT.12.27.C",
		},
		{
			name:     "bond defaults",
			base:     "BT",
			kind:     KindBond,
			expected: "BT.DEC.2025.4.5",
		},
		{
			name:     "bond full month name",
			base:     "BT",
			kind:     KindBond,
			params:   DerivativeParams{Month: "march", Year: "2030", Yield: yield(t, "5")},
			expected: "BT.MAR.2030.5.0",
		},
		{
			name:     "bond yield rounds half up",
			base:     "BT",
			kind:     KindBond,
			params:   DerivativeParams{Month: "JUN", Year: "2031", Yield: yield(t, "4.25")},
			expected: "BT.JUN.2031.4.3",
		},
		{
			name:     "bond yield wider than default precision",
			base:     "BT",
			kind:     KindBond,
			params:   DerivativeParams{Yield: yield(t, "123456789012345678901.25")},
			expected: "BT.DEC.2025.123456789012345678901.3",
		},
		{
			name:     "bond yield in exponent form",
			base:     "BT",
			kind:     KindBond,
			params:   DerivativeParams{Yield: yield(t, "1E+25")},
			expected: "BT.DEC.2025.10000000000000000000000000.0",
		},
		{
			name:     "unrenderable bond yield falls back to default",
			base:     "BT",
			kind:     KindBond,
			params:   DerivativeParams{Yield: yield(t, "NaN")},
			expected: "BT.DEC.2025.4.5",
		},
		{
			name:     "etf",
			base:     "XM",
			kind:     KindETF,
			expected: "XM.ETF",
		},
		{
			name:     "unknown kind returns base",
			base:     "XM",
			kind:     DerivativeKind("swap"),
			expected: "XM",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatDerivative(tc.base, tc.kind, tc.params))
		})
	}
}

func TestDerivativeBase(t *testing.T) {
	assert.Equal(t, "AM", DerivativeBase("The Amazing Spider-Man"))
	assert.Equal(t, "BT", DerivativeBase("Batman"))
	assert.Equal(t, "XX", DerivativeBase(""))
}

func TestDerivativeParams_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		kind    DerivativeKind
		params  DerivativeParams
		wantErr error
	}{
		{"option with call", KindOption, DerivativeParams{CallPut: Call}, nil},
		{"leap with put", KindLeap, DerivativeParams{CallPut: Put}, nil},
		{"option missing flag", KindOption, DerivativeParams{}, ErrInvalidCallPut},
		{"bond needs nothing", KindBond, DerivativeParams{}, nil},
		{"etf needs nothing", KindETF, DerivativeParams{}, nil},
		{"bond with large yield", KindBond, DerivativeParams{Yield: yield(t, "123456789012345678901.25")}, nil},
		{"bond with infinite yield", KindBond, DerivativeParams{Yield: yield(t, "Infinity")}, ErrInvalidYield},
		{"unknown kind", DerivativeKind("future"), DerivativeParams{}, ErrUnknownKind},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.params.Validate(tc.kind)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseCallPut(t *testing.T) {
	for _, in := range []string{"C", "c", "call", " CALL "} {
		cp, err := ParseCallPut(in)
		require.NoError(t, err)
		assert.Equal(t, Call, cp)
	}
	for _, in := range []string{"P", "put"} {
		cp, err := ParseCallPut(in)
		require.NoError(t, err)
		assert.Equal(t, Put, cp)
	}

	_, err := ParseCallPut("straddle")
	assert.ErrorIs(t, err, ErrInvalidCallPut)
}
