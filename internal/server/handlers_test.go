package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/neo4j-plugin/internal/graph"
	"github.com/vanshika/neo4j-plugin/internal/logging"
	"github.com/vanshika/neo4j-plugin/internal/plugin"
)

const validSourceBody = `{
	"referenceName": "movies",
	"neo4jHost": "localhost",
	"neo4jPort": 7687,
	"username": "user",
	"password": "password",
	"inputQuery": "MATCH (m:Movie) RETURN m"
}`

func serve(t *testing.T, deps RouterDependencies, method, path, body string) (*httptest.ResponseRecorder, validationResponse) {
	t.Helper()
	router := NewRouter(logging.Discard(), deps)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload validationResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &payload)
	return rec, payload
}

func TestHealthz(t *testing.T) {
	rec, _ := serve(t, RouterDependencies{}, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestValidateSourceValid(t *testing.T) {
	rec, payload := serve(t, RouterDependencies{}, http.MethodPost, "/validate/source", validSourceBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, payload.Valid)
	assert.Empty(t, payload.Failures)
}

func TestValidateSourceCollectsAllFailures(t *testing.T) {
	body := `{"inputQuery": "CREATE (n)", "splitNum": 2}`
	rec, payload := serve(t, RouterDependencies{}, http.MethodPost, "/validate/source", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, payload.Valid)

	var properties []string
	for _, f := range payload.Failures {
		properties = append(properties, f.Property)
	}
	assert.Equal(t, []string{plugin.PropertyInputQuery, plugin.PropertyInputQuery, plugin.PropertyOrderBy}, properties)
}

func TestValidateSink(t *testing.T) {
	body := `{"referenceName":"r","neo4jHost":"h","neo4jPort":99999,"username":"u","password":"p","outputQuery":"MATCH (n) RETURN n"}`
	rec, payload := serve(t, RouterDependencies{}, http.MethodPost, "/validate/sink", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var properties []string
	for _, f := range payload.Failures {
		properties = append(properties, f.Property)
	}
	assert.ElementsMatch(t, []string{plugin.PropertyPort, plugin.PropertyOutputQuery}, properties)
}

func TestValidateRejectsBadRequests(t *testing.T) {
	rec, _ := serve(t, RouterDependencies{}, http.MethodGet, "/validate/source", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec, _ = serve(t, RouterDependencies{}, http.MethodPost, "/validate/source", "[1,2]")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = serve(t, RouterDependencies{}, http.MethodPost, "/validate/source", `{"neo4jHost": {"a": 1}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConnectivity(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		mem := graph.NewMemoryClient()
		deps := RouterDependencies{Prober: GraphProber{Dial: mem.Dialer()}}

		rec, _ := serve(t, deps, http.MethodPost, "/connectivity", validSourceBody)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, mem.Closed())
	})

	t.Run("unreachable", func(t *testing.T) {
		mem := graph.NewMemoryClient().WithConnectivityError(errors.New("no route"))
		deps := RouterDependencies{Prober: GraphProber{Dial: mem.Dialer()}}

		rec, _ := serve(t, deps, http.MethodPost, "/connectivity", validSourceBody)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "no route")
		assert.NotContains(t, rec.Body.String(), "password")
		assert.Equal(t, 1, mem.Closed())
	})

	t.Run("invalid connection is not dialed", func(t *testing.T) {
		mem := graph.NewMemoryClient()
		deps := RouterDependencies{Prober: GraphProber{Dial: mem.Dialer()}}

		rec, _ := serve(t, deps, http.MethodPost, "/connectivity", `{"neo4jHost": "h"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Zero(t, mem.Dials())
	})
}

func TestGraphProberDialFailure(t *testing.T) {
	prober := GraphProber{Dial: func(context.Context, graph.Options) (graph.Client, error) {
		return nil, errors.New("refused")
	}}
	err := prober.Probe(context.Background(), plugin.ConnectionConfig{Host: "h", Port: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bolt://h:1")
}
