package cli

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/dishform/internal/config"
	"github.com/alexanderramin/dishform/internal/form"
	"github.com/alexanderramin/dishform/internal/repository"
	"github.com/alexanderramin/dishform/internal/sandbox"
	"github.com/alexanderramin/dishform/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingServer answers every request with a fixed status and body and
// keeps the request bodies.
type recordingServer struct {
	*httptest.Server
	mu     sync.Mutex
	bodies []string
}

func newRecordingServer(t *testing.T, status int, body string) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		rs.mu.Lock()
		rs.bodies = append(rs.bodies, string(b))
		rs.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) requests() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]string(nil), rs.bodies...)
}

// newTestApp returns an App as PersistentPreRunE would leave it, for
// tests that build models without going through cobra.
func newTestApp(t *testing.T, endpoint string, resetDelay time.Duration) *App {
	t.Helper()
	app := NewApp()
	app.LogConsole = io.Discard
	app.Settings = &config.Settings{
		Submit: config.SubmitSettings{Endpoint: endpoint, Timeout: 2 * time.Second, ResetDelay: resetDelay},
		Log:    config.LogSettings{Level: "info", Format: "text"},
	}
	app.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return app
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := NewApp()
	app.LogConsole = io.Discard
	root := NewRootCmd(app)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSubmitCmd_Success(t *testing.T) {
	srv := newRecordingServer(t, http.StatusCreated, `{"id":"abc"}`)

	out, err := execute(t, "submit", "--endpoint", srv.URL+"/dishes",
		"--name", "Margherita", "--time", "00:15:00", "--type", "pizza",
		"--slices", "4", "--diameter", "30.5")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Dish submitted")

	reqs := srv.requests()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"name":"Margherita","preparation_time":"00:15:00","type":"pizza","no_of_slices":4,"diameter":30.5}`, reqs[0])
}

func TestSubmitCmd_InvalidFormIsNotSent(t *testing.T) {
	srv := newRecordingServer(t, http.StatusCreated, `{}`)

	out, err := execute(t, "submit", "--endpoint", srv.URL, "--type", "pizza", "--slices", "4")
	require.Error(t, err)
	assert.ErrorIs(t, err, form.ErrFormInvalid)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "preparation_time")
	assert.Contains(t, err.Error(), "diameter")
	assert.NotContains(t, err.Error(), "no_of_slices")
	assert.Contains(t, out, "FIELD")
	assert.Empty(t, srv.requests())
}

func TestSubmitCmd_AttributeOfAnotherType(t *testing.T) {
	srv := newRecordingServer(t, http.StatusCreated, `{}`)

	_, err := execute(t, "submit", "--endpoint", srv.URL,
		"--name", "Tomato", "--time", "00:20:00", "--type", "soup", "--slices", "4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--slices")
	assert.Empty(t, srv.requests())
}

func TestSubmitCmd_SoupUsesDefaultSpiciness(t *testing.T) {
	srv := newRecordingServer(t, http.StatusCreated, `{}`)

	_, err := execute(t, "submit", "--endpoint", srv.URL,
		"--name", "Tomato", "--time", "00:20:00", "--type", "soup")
	require.NoError(t, err)
	reqs := srv.requests()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"name":"Tomato","preparation_time":"00:20:00","type":"soup","spiciness_scale":5}`, reqs[0])
}

func TestSubmitCmd_StatusFailure(t *testing.T) {
	srv := newRecordingServer(t, http.StatusInternalServerError, `{"errors":[["boom"]]}`)

	out, err := execute(t, "submit", "--endpoint", srv.URL,
		"--name", "Club", "--time", "00:05:00", "--type", "sandwich", "--bread", "3")
	assert.ErrorIs(t, err, errSubmitFailed)
	assert.Contains(t, out, "Sending data failed!")
	assert.NotContains(t, out, "•")
}

func TestSubmitCmd_UndecodableResponseListsErrors(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, `stored`)

	out, err := execute(t, "submit", "--endpoint", srv.URL,
		"--name", "Club", "--time", "00:05:00", "--type", "sandwich", "--bread", "3")
	assert.ErrorIs(t, err, errSubmitFailed)
	assert.Contains(t, out, "Sending data failed!")
	assert.Contains(t, out, "•")
}

func TestSubmitCmd_AgainstSandbox(t *testing.T) {
	repo := repository.NewSQLiteDishRepo(testutil.NewTestDB(t))
	s, err := sandbox.NewServer(repo, sandbox.Options{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	out, err := execute(t, "submit", "--endpoint", srv.URL+"/dishes",
		"--name", "Club", "--time", "00:05:00", "--type", "sandwich", "--bread", "3")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"slices_of_bread": 3`)

	dishes, err := repo.List(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, dishes, 1)
	assert.Equal(t, "Club", dishes[0].Name)
}

func TestSubmitCmd_InvalidEndpointConfig(t *testing.T) {
	_, err := execute(t, "submit", "--endpoint", "not a url", "--name", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestTypesCmd(t *testing.T) {
	out, err := execute(t, "types")
	require.NoError(t, err)
	for _, want := range []string{"pizza", "soup", "sandwich", "no_of_slices, diameter", "spiciness_scale=5"} {
		assert.Contains(t, out, want)
	}
}

func TestNewCmd_RequiresTerminal(t *testing.T) {
	_, err := execute(t, "new")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dishform submit")
}

func TestRootCmd_ShowsHelpWithoutTerminal(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "submit")
}

func TestSandboxDBPath(t *testing.T) {
	p, err := sandboxDBPath(":memory:")
	require.NoError(t, err)
	assert.Equal(t, ":memory:", p)

	p, err = sandboxDBPath("")
	require.NoError(t, err)
	assert.Contains(t, p, ".dishform")
}
