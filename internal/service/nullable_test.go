package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableDecoding(t *testing.T) {
	var in struct {
		Limit Nullable[int]    `json:"limit"`
		Zone  Nullable[uint]   `json:"zone"`
		Note  Nullable[string] `json:"note"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"limit": null, "zone": 3}`), &in))

	assert.True(t, in.Limit.Set)
	assert.Nil(t, in.Limit.Value)
	assert.True(t, in.Zone.Set)
	require.NotNil(t, in.Zone.Value)
	assert.Equal(t, uint(3), *in.Zone.Value)
	assert.False(t, in.Note.Set)

	current := ptr(7)
	in.Limit.assign(&current)
	assert.Nil(t, current)

	current = ptr(7)
	Nullable[int]{}.assign(&current)
	assert.Equal(t, 7, *current)

	assert.Error(t, json.Unmarshal([]byte(`{"limit": "ten"}`), &in))
}

func TestNullableEncoding(t *testing.T) {
	out, err := json.Marshal(map[string]Nullable[int]{"a": Some(2), "b": Null[int]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 2, "b": null}`, string(out))
}
