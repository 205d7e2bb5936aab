package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/just-nibble/bounty-service/internal/adapters/db"
	"github.com/just-nibble/bounty-service/internal/adapters/treasury"
	"github.com/just-nibble/bounty-service/internal/core/service"
	"github.com/just-nibble/bounty-service/internal/http/handlers"
	"github.com/just-nibble/bounty-service/internal/routes"
	"github.com/just-nibble/bounty-service/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epoch = int64(1700000000)

type testServer struct {
	router *http.ServeMux
	bank   *treasury.InMemory
	clock  *clock.Manual
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	clk := clock.NewManual(time.Unix(epoch, 0))
	bank := treasury.NewInMemory()
	store := db.NewMemoryStore()
	commits := service.NewCommitService(store, bank, clk)
	tournaments := service.NewTournamentService(store, commits, bank, clk)

	return &testServer{
		router: routes.NewRouter(
			handlers.NewTournamentHandler(tournaments),
			handlers.NewCommitHandler(commits),
		),
		bank:  bank,
		clock: clk,
	}
}

func (s *testServer) do(t *testing.T, method, path, from string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if from != "" {
		req.Header.Set(handlers.CallerHeader, from)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "success", env.Status, "body: %s", rec.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
}

func TestPlatformOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.bank.Mint("alice", 100)
	s.bank.Mint("bob", 5)

	// missing caller identity
	rec := s.do(t, http.MethodPost, "/tournaments", "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/tournaments", "alice", map[string]interface{}{
		"content":   "ipfs://abstract",
		"bounty":    100,
		"entry_fee": 2,
		"round":     map[string]interface{}{"start": epoch, "duration": 3600, "review": 60, "bounty": 100},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tournament struct {
		ID      string `json:"id"`
		State   string `json:"state"`
		Balance uint64 `json:"balance"`
	}
	decode(t, rec, &tournament)
	assert.Equal(t, "open", tournament.State)
	assert.Equal(t, uint64(0), tournament.Balance)

	rec = s.do(t, http.MethodGet, "/tournaments/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/tournaments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []struct {
		ID string `json:"id"`
	}
	decode(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, tournament.ID, listed[0].ID)

	// bob commits work and submits it, entering on the way
	rec = s.do(t, http.MethodPost, "/commits", "bob", map[string]interface{}{
		"salt": "s1", "content": "results", "value": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var commit struct {
		Hash string `json:"hash"`
	}
	decode(t, rec, &commit)

	rec = s.do(t, http.MethodPost, "/tournaments/"+tournament.ID+"/submissions", "bob", map[string]interface{}{
		"commit_hash": commit.Hash,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// resubmitting the same commit conflicts
	rec = s.do(t, http.MethodPost, "/tournaments/"+tournament.ID+"/submissions", "bob", map[string]interface{}{
		"commit_hash": commit.Hash,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/tournaments/"+tournament.ID+"/rounds/0", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var round struct {
		State       string `json:"state"`
		Submissions int    `json:"submissions"`
	}
	decode(t, rec, &round)
	assert.Equal(t, "open", round.State)
	assert.Equal(t, 1, round.Submissions)

	// only the owner selects winners, and only in review
	s.clock.Advance(3601 * time.Second)
	winners := map[string]interface{}{
		"winners": []string{commit.Hash},
		"action":  2,
		"ghost":   map[string]interface{}{},
	}
	rec = s.do(t, http.MethodPost, "/tournaments/"+tournament.ID+"/winners", "bob", winners)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/tournaments/"+tournament.ID+"/winners", "alice", winners)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/tournaments/"+tournament.ID, "", nil)
	decode(t, rec, &tournament)
	assert.Equal(t, "closed", tournament.State)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/commits/%s/reward?user=bob", commit.Hash), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reward struct {
		Available uint64 `json:"available"`
	}
	decode(t, rec, &reward)
	assert.Equal(t, uint64(100), reward.Available)

	rec = s.do(t, http.MethodPost, "/commits/"+commit.Hash+"/withdraw", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var withdrawal struct {
		Amount uint64 `json:"amount"`
	}
	decode(t, rec, &withdrawal)
	assert.Equal(t, uint64(100), withdrawal.Amount)
	assert.Equal(t, uint64(103), s.bank.BalanceOf("bob"), "bounty plus what was left after the entry fee")

	// an empty escrow claim maps to payment required
	rec = s.do(t, http.MethodPost, "/commits/"+commit.Hash+"/withdraw", "bob", nil)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
}

func TestCommitEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/commits/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/commits", "alice", map[string]interface{}{
		"salt": "s", "content": "", "value": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/commits", "alice", map[string]interface{}{
		"salt": "s", "content": "work", "value": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var commit struct {
		Hash string `json:"hash"`
	}
	decode(t, rec, &commit)

	rec = s.do(t, http.MethodPost, "/commits/"+commit.Hash+"/members", "alice", map[string]interface{}{
		"member": "bob",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// non-owners cannot grow the group
	rec = s.do(t, http.MethodPost, "/commits/"+commit.Hash+"/members", "bob", map[string]interface{}{
		"member": "carol",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/commits/"+commit.Hash, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var node struct {
		Owner string `json:"owner"`
		Group []struct {
			Member string `json:"member"`
		} `json:"group"`
	}
	decode(t, rec, &node)
	assert.Equal(t, "alice", node.Owner)
	assert.Len(t, node.Group, 2)
}
