package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	sssom "github.com/cthoyt/sssom-go"
	"github.com/cthoyt/sssom-go/curie"
	"github.com/cthoyt/sssom-go/database"
	"github.com/cthoyt/sssom-go/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T) (*httptest.Server, database.Repository) {
	t.Helper()
	repo := database.NewMemory(nil)
	srv := httptest.NewServer(NewServer(repo, config.Server{}).Router())
	t.Cleanup(func() {
		http.DefaultClient.CloseIdleConnections()
		srv.Close()
		require.NoError(t, repo.Close())
	})
	return srv, repo
}

func predictedMapping(subject string) sssom.Mapping {
	confidence := 0.9
	return sssom.Mapping{
		Subject:       curie.NewNamedReference("CHEBI", subject, "alvimopan"),
		Predicate:     curie.ExactMatch,
		Object:        curie.NewNamedReference("mesh", "C063233", "alvimopan"),
		Justification: curie.LexicalMatching,
		Confidence:    &confidence,
	}
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, url, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, data
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ok")
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestAddAndGetMapping(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/mapping", predictedMapping("10001"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created recordResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "sssom.mapping", created.Record.Prefix)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/mapping/"+created.Record.CURIE(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var got sssom.Mapping
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "CHEBI:10001", got.Subject.CURIE())
}

func TestAddMappingRejectsIncomplete(t *testing.T) {
	srv, _ := newTestServer(t)

	incomplete := predictedMapping("10001")
	incomplete.Justification = curie.Reference{}
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/mapping", incomplete)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetMappingNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/mapping/sssom.mapping:v1-missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp errorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, http.StatusNotFound, errResp.Status)
	assert.NotEmpty(t, errResp.Error)
}

func TestDeleteMapping(t *testing.T) {
	srv, repo := newTestServer(t)
	ref, err := repo.Add(context.Background(), predictedMapping("10001"))
	require.NoError(t, err)

	resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/mapping/"+ref.CURIE(), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/mapping/"+ref.CURIE(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCurateAction(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()
	ref, err := repo.Add(ctx, predictedMapping("10001"))
	require.NoError(t, err)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/action/curate/"+ref.CURIE(), curateRequest{
		Mark:    "correct",
		Authors: []string{"orcid:0000-0003-4423-4370"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var result recordResponse
	require.NoError(t, json.Unmarshal(body, &result))
	assert.False(t, result.Record.Same(ref))

	curated, err := repo.Get(ctx, result.Record)
	require.NoError(t, err)
	assert.True(t, curated.Justification.Same(curie.ManualMappingCuration))
	require.Len(t, curated.Authors, 1)
	assert.Equal(t, "orcid:0000-0003-4423-4370", curated.Authors[0].CURIE())
}

func TestCurateActionBadMark(t *testing.T) {
	srv, repo := newTestServer(t)
	ref, err := repo.Add(context.Background(), predictedMapping("10001"))
	require.NoError(t, err)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/action/curate/"+ref.CURIE(), curateRequest{Mark: "maybe"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCurateActionNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/action/curate/sssom.mapping:v1-missing", curateRequest{Mark: "correct"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPublishAction(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()
	ref, err := repo.Add(ctx, predictedMapping("10001"))
	require.NoError(t, err)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/action/publish/"+ref.CURIE()+"?date=2024-05-17", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var result recordResponse
	require.NoError(t, json.Unmarshal(body, &result))
	published, err := repo.Get(ctx, result.Record)
	require.NoError(t, err)
	require.NotNil(t, published.PublicationDate)
	assert.Equal(t, "2024-05-17", published.PublicationDate.String())
}

func TestPublishActionBadDate(t *testing.T) {
	srv, repo := newTestServer(t)
	ref, err := repo.Add(context.Background(), predictedMapping("10001"))
	require.NoError(t, err)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/action/publish/"+ref.CURIE()+"?date=17.05.2024", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListMappings(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()

	_, err := repo.Add(ctx, predictedMapping("10001"))
	require.NoError(t, err)
	seed, err := repo.Add(ctx, predictedMapping("10002"))
	require.NoError(t, err)
	_, err = repo.Curate(ctx, seed, sssom.MarkCorrect, nil)
	require.NoError(t, err)

	type listResponse struct {
		Count    int             `json:"count"`
		Mappings []sssom.Mapping `json:"mappings"`
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/mappings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all listResponse
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Equal(t, 2, all.Count)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/mappings?set=positive", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var positive listResponse
	require.NoError(t, json.Unmarshal(body, &positive))
	assert.Equal(t, 1, positive.Count)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/mappings?subject_query=10001", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var queried listResponse
	require.NoError(t, json.Unmarshal(body, &queried))
	require.Equal(t, 1, queried.Count)
	assert.Equal(t, "CHEBI:10001", queried.Mappings[0].Subject.CURIE())

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/mappings?set=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListMappingsPagination(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Add(ctx, predictedMapping(fmt.Sprintf("1000%d", i)))
		require.NoError(t, err)
	}

	type listResponse struct {
		Count    int             `json:"count"`
		Mappings []sssom.Mapping `json:"mappings"`
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/mappings?limit=2&offset=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page listResponse
	require.NoError(t, json.Unmarshal(body, &page))
	// count reports the full result size, the window holds two rows
	assert.Equal(t, 5, page.Count)
	assert.Len(t, page.Mappings, 2)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/mappings?offset=10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var empty listResponse
	require.NoError(t, json.Unmarshal(body, &empty))
	assert.Equal(t, 5, empty.Count)
	assert.Empty(t, empty.Mappings)
}

func TestSummary(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Add(ctx, predictedMapping(fmt.Sprintf("1000%d", i)))
		require.NoError(t, err)
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary map[string]int
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, 3, summary["total"])
	assert.Equal(t, 3, summary["uncurated"])
	assert.Equal(t, 0, summary["positive"])
}
