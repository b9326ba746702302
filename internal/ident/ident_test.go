package ident

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	seven := int64(7)
	var nilPtr *int64

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"int", 7, "7"},
		{"int64", int64(7), "7"},
		{"uint8", uint8(7), "7"},
		{"float", 7.0, "7"},
		{"float string", "7.0", "7"},
		{"padded string", " 7 ", "7"},
		{"plain string", "7", "7"},
		{"trailing zeros", "7.000", "7"},
		{"json number", json.Number("7.0"), "7"},
		{"pointer", &seven, "7"},
		{"nil pointer", nilPtr, Unset},
		{"nil", nil, Unset},
		{"empty", "", Unset},
		{"blank", "   ", Unset},
		{"nan", math.NaN(), Unset},
		{"nan string", "NaN", "NaN"},
		{"fraction", "7.5", "7.5"},
		{"non numeric", " task-abc ", "task-abc"},
		{"uuid", "0b7c2a4e-9f3e-4a55-8f61-0d1c2b3a4f5e", "0b7c2a4e-9f3e-4a55-8f61-0d1c2b3a4f5e"},
		{"id type", ID(" 12.0"), "12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_EquivalentForms(t *testing.T) {
	require.Equal(t, "7", Normalize(7))
	require.Equal(t, Normalize(7), Normalize("7.0"))
	require.Equal(t, Normalize("7.0"), Normalize(" 7 "))
}

func TestEqual(t *testing.T) {
	require.True(t, Equal(7, "7.0"))
	require.True(t, Equal("abc", " abc"))
	require.False(t, Equal(7, 8))
	require.False(t, Equal("", ""))
	require.False(t, Equal(nil, ""))
}

func TestInt64(t *testing.T) {
	n, err := Int64(" 42.0 ")
	require.NoError(t, err)
	require.Equal(t, int64(42), n)

	_, err = Int64("")
	require.ErrorIs(t, err, ErrUnset)

	_, err = Int64("abc")
	require.ErrorIs(t, err, ErrNotNumeric)
}

func TestID_UnmarshalJSON(t *testing.T) {
	var body struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
		D ID `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 7, "b": "7.0", "c": null, "d": " 12 "}`), &body))
	require.Equal(t, ID("7"), body.A)
	require.Equal(t, ID("7"), body.B)
	require.False(t, body.C.IsSet())
	require.Equal(t, ID("12"), body.D)

	p, err := body.A.Ptr()
	require.NoError(t, err)
	require.Equal(t, int64(7), *p)

	p, err = body.C.Ptr()
	require.NoError(t, err)
	require.Nil(t, p)

	var bad struct {
		A ID `json:"a"`
	}
	require.Error(t, json.Unmarshal([]byte(`{"a": [1]}`), &bad))
}
