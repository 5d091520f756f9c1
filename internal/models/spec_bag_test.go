package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecBag_MarshalKeepsInsertionOrder(t *testing.T) {
	var bag SpecBag
	bag.Set("모델명", StringValue("M873GBB031"))
	bag.Set("용량", StringValue("870L"))
	bag.Set("installationFee", NumberValue(30000))
	bag.Set("energyGrade1", BoolValue(true))

	data, err := json.Marshal(bag)
	require.NoError(t, err)

	// Member order must follow insertion order, not key sort order.
	assert.Equal(t,
		`{"모델명":"M873GBB031","용량":"870L","installationFee":30000,"energyGrade1":true}`,
		string(data))
}

func TestSpecBag_SetReplacesInPlace(t *testing.T) {
	var bag SpecBag
	bag.Set("a", StringValue("1"))
	bag.Set("b", StringValue("2"))
	bag.Set("a", StringValue("updated"))

	assert.Equal(t, 2, bag.Len())

	data, err := json.Marshal(bag)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"updated","b":"2"}`, string(data))
}

func TestSpecBag_UnmarshalRoundTrip(t *testing.T) {
	input := `{"색상":"베이지","설치비":30000,"무상AS":true}`

	var bag SpecBag
	require.NoError(t, json.Unmarshal([]byte(input), &bag))
	require.Equal(t, 3, bag.Len())

	color, ok := bag.Get("색상")
	require.True(t, ok)
	assert.Equal(t, SpecString, color.Kind)
	assert.Equal(t, "베이지", color.Str)

	fee, ok := bag.Get("설치비")
	require.True(t, ok)
	assert.Equal(t, SpecNumber, fee.Kind)
	assert.Equal(t, float64(30000), fee.Num)

	warranty, ok := bag.Get("무상AS")
	require.True(t, ok)
	assert.Equal(t, SpecBool, warranty.Kind)
	assert.True(t, warranty.Bool)

	out, err := json.Marshal(bag)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestSpecBag_UnmarshalRejectsNonObject(t *testing.T) {
	var bag SpecBag
	assert.Error(t, json.Unmarshal([]byte(`["a","b"]`), &bag))
	assert.Error(t, json.Unmarshal([]byte(`"text"`), &bag))
}

func TestSpecBag_SQLRoundTrip(t *testing.T) {
	var bag SpecBag
	bag.Set("모델명", StringValue("WF21T6000KW"))
	bag.Set("설치비", NumberValue(0))

	value, err := bag.Value()
	require.NoError(t, err)

	var restored SpecBag
	require.NoError(t, restored.Scan(value))
	assert.Equal(t, bag, restored)

	var fromNil SpecBag
	require.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)
}

func TestSpecValue_MarshalsAsBareScalar(t *testing.T) {
	tests := []struct {
		value    SpecValue
		expected string
	}{
		{StringValue("베이지"), `"베이지"`},
		{NumberValue(55000), `55000`},
		{BoolValue(false), `false`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, string(data))
	}
}

func TestProductDraft_Uncategorized(t *testing.T) {
	draft := &ProductDraft{}
	assert.True(t, draft.Uncategorized())

	uncategorized := CategoryUncategorized
	draft.CategoryID = &uncategorized
	assert.True(t, draft.Uncategorized())

	fridge := CategoryRefrigerator
	draft.CategoryID = &fridge
	assert.False(t, draft.Uncategorized())
}
