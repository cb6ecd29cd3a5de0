package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUnits(t *testing.T) {
	cases := []struct {
		raw      string
		decimals int32
		places   int32
		want     string
	}{
		{"1234500000000000000", 18, 6, "1.234500"},
		{"0", 18, 6, "0.000000"},
		{"", 18, 6, "0.000000"},
		{"1", 18, 6, "0.000000"},
		{"125000000000000000", 18, 6, "0.125000"},
		{"30000000000", 9, 0, "30"},
	}
	for _, tc := range cases {
		got, err := FormatUnits(tc.raw, tc.decimals, tc.places)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}

	_, err := FormatUnits("not-a-number", 18, 6)
	assert.Error(t, err)
	_, err = FormatUnits("-5", 18, 6)
	assert.Error(t, err)
}

func TestWeiToGwei(t *testing.T) {
	got, err := WeiToGwei("25000000000")
	require.NoError(t, err)
	assert.Equal(t, "25", got)
}

func TestFiatValue(t *testing.T) {
	got, err := FiatValue("1.500000", 2400)
	require.NoError(t, err)
	assert.Equal(t, "3600.00", got)

	got, err = FiatValue("0.000000", 2400)
	require.NoError(t, err)
	assert.Equal(t, "0.00", got)
}

func TestMulIntegers(t *testing.T) {
	got, err := MulIntegers("21000", "30000000000")
	require.NoError(t, err)
	assert.Equal(t, "630000000000000", got)

	got, err = MulIntegers("", "1")
	require.NoError(t, err)
	assert.Equal(t, "0", got)
}

func TestIsZeroInteger(t *testing.T) {
	assert.True(t, IsZeroInteger("0"))
	assert.True(t, IsZeroInteger(""))
	assert.False(t, IsZeroInteger("1"))
	assert.False(t, IsZeroInteger("abc"))
}

func TestAddressHelpers(t *testing.T) {
	assert.True(t, IsAddress("0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8e1"))
	assert.False(t, IsAddress("742d35Cc6634C0532925a3b8D4C9db96C4b4d8e1"))
	assert.False(t, IsAddress("0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8"))
	assert.False(t, IsAddress("0xZZ2d35Cc6634C0532925a3b8D4C9db96C4b4d8e1"))
	assert.False(t, IsAddress(""))

	assert.Equal(t, "0x742d35cc6634c0532925a3b8d4c9db96c4b4d8e1",
		NormalizeAddress("0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8e1"))
	assert.True(t, SameAddress("0xABC", "0xabc"))
	assert.False(t, SameAddress("", ""))
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 50, ClampPage(0, 0).Limit)
	assert.Equal(t, 100, ClampPage(1000, 0).Limit)
	assert.Equal(t, 1, ClampPage(1, 0).Limit)
	assert.Equal(t, 0, ClampPage(10, -4).Offset)
	assert.Equal(t, 20, ClampPage(10, 20).Offset)
}
