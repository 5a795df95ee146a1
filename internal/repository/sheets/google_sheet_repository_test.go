package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type sheetsCall struct {
	method string
	path   string
	query  map[string]string
	values [][]interface{}
}

type fakeSheetsAPI struct {
	mu     sync.Mutex
	calls  []sheetsCall
	status int
	body   string
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	call := sheetsCall{method: r.Method, path: r.URL.Path, query: map[string]string{}}
	for k := range r.URL.Query() {
		call.query[k] = r.URL.Query().Get(k)
	}
	if r.Method == http.MethodPost {
		var payload struct {
			Values [][]interface{} `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		call.values = payload.Values
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
	}
	_, _ = w.Write([]byte(f.body))
}

func newFakeRepo(t *testing.T, api *fakeSheetsAPI) *GoogleSheetRepository {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	repo, err := newGoogleSheetRepository(context.Background(), "sheet-1", nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication())
	require.NoError(t, err)
	return repo
}

func TestWriteRowsAppendsInOneRequest(t *testing.T) {
	api := &fakeSheetsAPI{body: `{"updates":{"updatedRange":"Batches!A2:I3"}}`}
	repo := newFakeRepo(t, api)

	rows := [][]interface{}{
		{"2024-07-09", "A", 1000},
		{"2024-07-09", "B", 200},
	}
	require.NoError(t, repo.WriteRows(context.Background(), batchesRange, rows))

	require.Len(t, api.calls, 1)
	call := api.calls[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.True(t, strings.HasSuffix(call.path, "/spreadsheets/sheet-1/values/Batches!A:I:append"), call.path)
	assert.Equal(t, valueInputOption, call.query["valueInputOption"])
	assert.Equal(t, insertDataOption, call.query["insertDataOption"])
	require.Len(t, call.values, 2)
	assert.Equal(t, "B", call.values[1][1])
}

func TestWriteRowsEmptyIsNoop(t *testing.T) {
	api := &fakeSheetsAPI{body: `{}`}
	repo := newFakeRepo(t, api)

	require.NoError(t, repo.WriteRows(context.Background(), batchesRange, nil))
	assert.Empty(t, api.calls)

	assert.Error(t, repo.WriteRows(context.Background(), "", [][]interface{}{{"x"}}))
	assert.Empty(t, api.calls)
}

func TestWriteRowsReportsAPIError(t *testing.T) {
	api := &fakeSheetsAPI{status: http.StatusForbidden, body: `{"error":{"code":403,"message":"caller lacks permission"}}`}
	repo := newFakeRepo(t, api)

	err := repo.WriteRows(context.Background(), feedPlanRange, [][]interface{}{{"2024-07-09"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append 1 rows into range FeedPlan!A:G")
}

func TestReadRange(t *testing.T) {
	api := &fakeSheetsAPI{body: `{"range":"Batches!A1:I1","values":[["Created","Batch"]]}`}
	repo := newFakeRepo(t, api)

	values, err := repo.ReadRange(context.Background(), batchesHeader)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "Batch", values[0][1])

	require.Len(t, api.calls, 1)
	assert.Equal(t, http.MethodGet, api.calls[0].method)
	assert.True(t, strings.HasSuffix(api.calls[0].path, "/values/Batches!A1:I1"), api.calls[0].path)
}

func TestNewRepositoryRequiresSpreadsheet(t *testing.T) {
	_, err := newGoogleSheetRepository(context.Background(), "", nil, option.WithoutAuthentication())
	assert.Error(t, err)
}
