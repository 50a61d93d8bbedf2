package document

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalJSON_KeepsKeyOrder(t *testing.T) {
	v := ObjectValue(
		F("z", IntValue(1)),
		F("a", ArrayValue(FloatValue(1.5), FloatValue(2), StringValue("x\"y"), NullValue())),
		F("m", ObjectValue(F("b", BoolValue(true)))),
	)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":[1.5,2.0,"x\"y",null],"m":{"b":true}}`, string(out))
}

func TestMarshalJSON_RoundTripsThroughParse(t *testing.T) {
	src := `{"name":"x","n":-3,"f":0.25,"list":[{"a":[]},{}],"nil":null}`
	v, err := Parse([]byte(src), FormatJSON)
	require.NoError(t, err)

	out, err := v.MarshalJSON()
	require.NoError(t, err)

	back, err := Parse(out, FormatJSON)
	require.NoError(t, err)
	assert.True(t, Equal(v, back))
	assert.Equal(t, src, string(out))
}

func TestMarshalJSON_NonFiniteFloats(t *testing.T) {
	v := ArrayValue(FloatValue(math.NaN()), FloatValue(math.Inf(1)), FloatValue(math.Inf(-1)))
	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `["NaN","+Inf","-Inf"]`, string(out))
}

func TestIndent(t *testing.T) {
	v := ObjectValue(F("b", IntValue(1)), F("a", ArrayValue()))
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": []\n}\n", v.Indent())
}

func TestMarshalJSON_FloatForms(t *testing.T) {
	tests := []struct {
		f    float64
		want string
	}{
		{2, "2.0"},
		{-0.5, "-0.5"},
		{1e6, "1e+06"},
		{1.25e-7, "1.25e-07"},
	}
	for _, tt := range tests {
		out, err := FloatValue(tt.f).MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(out))
	}
}
