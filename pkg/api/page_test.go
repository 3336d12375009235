package api_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpmoralesv/finanzas-cli/pkg/api"
	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

func TestPage_Envelope(t *testing.T) {
	body := `{"count":42,"next":"http://x/api/accounts/?page=2","previous":null,"results":[{"id":1,"name":"Efectivo"}]}`

	var page api.Page[model.Account]
	require.NoError(t, json.Unmarshal([]byte(body), &page))

	assert.True(t, page.Paginated)
	assert.Equal(t, 42, page.Count)
	assert.Equal(t, "http://x/api/accounts/?page=2", page.Next)
	assert.Empty(t, page.Previous)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Efectivo", page.Results[0].Name)
}

func TestPage_BareArray(t *testing.T) {
	body := `[{"id":1,"name":"Efectivo"},{"id":2,"name":"Banco"}]`

	var page api.Page[model.Account]
	require.NoError(t, json.Unmarshal([]byte(body), &page))

	assert.False(t, page.Paginated)
	assert.Zero(t, page.Count)
	assert.Len(t, page.Results, 2)
}

func TestPage_EmptyEnvelope(t *testing.T) {
	var page api.Page[model.Account]
	require.NoError(t, json.Unmarshal([]byte(`{"count":0,"results":[]}`), &page))
	assert.True(t, page.Paginated)
	assert.Empty(t, page.Results)
}
