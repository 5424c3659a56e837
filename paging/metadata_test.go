package paging

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataJSON(t *testing.T) {
	m := Metadata{}
	m.Set("source", StringValue("hosted"))
	m.Set("took", IntValue(12))
	m.Set("cached", BoolValue(false))
	m.Set("facets", ObjectValue(map[string]Value{
		"color": ListValue(StringValue("red"), StringValue("blue")),
	}))
	m.Set("cursor", Value{})

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"source": "hosted",
		"took": 12,
		"cached": false,
		"facets": {"color": ["red", "blue"]},
		"cursor": null
	}`, string(data))

	var decoded Metadata
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, m, decoded)
}

func TestValueAccessors(t *testing.T) {
	v := NumberValue(1.5)
	assert.Equal(t, KindNumber, v.Kind())
	n, ok := v.AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 1.5, n)

	_, ok = v.AsString()
	assert.False(t, ok)

	assert.True(t, Value{}.IsNull())
	assert.Equal(t, "object", KindObject.String())
}

func TestValueUnmarshalRejectsGarbage(t *testing.T) {
	var v Value
	assert.Error(t, json.Unmarshal([]byte(`{"a":`), &v))
}

func TestEmptyCollectionsMarshal(t *testing.T) {
	data, err := json.Marshal(map[string]Value{
		"list": ListValue(),
		"obj":  ObjectValue(nil),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"list": [], "obj": {}}`, string(data))
}
