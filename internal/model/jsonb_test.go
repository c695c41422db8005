package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pantry-chef/backend/internal/types"
)

func TestJSONBStringArrayScan(t *testing.T) {
	var a JSONBStringArray
	require.NoError(t, a.Scan([]byte(`["tofu","rice"]`)))
	assert.Equal(t, JSONBStringArray{"tofu", "rice"}, a)

	require.NoError(t, a.Scan(nil))
	assert.Empty(t, a)

	assert.Error(t, a.Scan(42))
}

func TestJSONBStringArrayValueEmpty(t *testing.T) {
	v, err := JSONBStringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestJSONBRoundTripsThroughDriver(t *testing.T) {
	in := NewJSONB([]types.Instruction{{Step: 1, Description: "Chop"}})
	v, err := in.Value()
	require.NoError(t, err)

	var out JSONB[[]types.Instruction]
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in.Data, out.Data)
}

func TestJSONBMarshalsAsInnerValue(t *testing.T) {
	b, err := json.Marshal(NewJSONB(map[string]float64{"calories": 450}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"calories":450}`, string(b))
}

func TestNewRecipeOwner(t *testing.T) {
	g := &types.GeneratedRecipe{Title: "Bowl", ShoppingList: []string{"tofu"}, Source: "ai"}

	owned := NewRecipe(g, "user-1")
	require.NotNil(t, owned.CreatedBy)
	assert.Equal(t, "user-1", *owned.CreatedBy)
	assert.Equal(t, JSONBStringArray{"tofu"}, owned.ShoppingList)

	assert.Nil(t, NewRecipe(g, "").CreatedBy)
}
