package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEngine struct {
	got    domain.BISQuery
	result domain.QueryResult
}

func (f *fakeEngine) Query(_ context.Context, q domain.BISQuery) domain.QueryResult {
	f.got = q
	return f.result
}

func TestQueryEndpoint(t *testing.T) {
	engine := &fakeEngine{result: domain.QueryResult{
		Kind:  domain.ResultLeaf,
		Class: "Death_Knight", Spec: "Blood", HeroTalent: "Deathbringer",
		Gear: domain.GearSet{{Slot: "Head", Name: "Helm", URL: "https://www.wowhead.com/item=1"}},
	}}
	srv := httptest.NewServer(NewServer(engine, nil, Config{}, zap.NewNop()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/bis?class=dk&spec=blood&hero=db&slot=head")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, domain.BISQuery{Class: "dk", Spec: "blood", HeroTalent: "db", Slot: "head"}, engine.got)

	var body QueryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "BIS Gear for Death Knight Blood (Deathbringer) - All Slots", body.Payload.Title)
	require.Equal(t, []domain.PayloadField{{Name: "Head", Value: "[Helm](https://www.wowhead.com/item=1)"}}, body.Payload.Fields)
	require.Equal(t, domain.ResultLeaf, body.Result.Kind)
	require.Equal(t, "Helm", body.Result.Gear[0].Name)
}

func TestQueryEndpointInputError(t *testing.T) {
	engine := &fakeEngine{result: domain.NewErrorResult("Invalid Class", "No class matches 'x'.")}
	srv := httptest.NewServer(NewServer(engine, nil, Config{}, zap.NewNop()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/bis?class=x")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body QueryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.Payload.IsError)
	require.Equal(t, "Invalid Class", body.Payload.Title)
}

func TestHealthEndpoint(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	health := func(context.Context) (map[string]any, bool) {
		return map[string]any{"cache_entries": 3}, healthy.Load()
	}
	srv := httptest.NewServer(NewServer(&fakeEngine{}, health, Config{}, zap.NewNop()).Handler())
	defer srv.Close()

	check := func(wantCode int, wantStatus string) {
		resp, err := http.Get(srv.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, wantCode, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Equal(t, wantStatus, body["status"])
		require.EqualValues(t, 3, body["cache_entries"])
	}

	check(http.StatusOK, "ok")
	healthy.Store(false)
	check(http.StatusServiceUnavailable, "degraded")
}
