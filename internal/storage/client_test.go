package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/dishform/internal/dish"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func pizzaPayload() dish.Payload {
	return dish.NewPayload(dish.Record{
		Name:            "Margherita",
		PreparationTime: "00:15:00",
		Type:            string(dish.TypePizza),
		Attributes:      dish.PizzaAttributes{NoOfSlices: 4, Diameter: 30.5},
	})
}

func TestHTTPClient_Submit_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/dishes", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t,
			`{"name":"Margherita","preparation_time":"00:15:00","type":"pizza","no_of_slices":4,"diameter":30.5}`,
			string(body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewHTTPClient(Config{Endpoint: srv.URL + "/dishes"}, obs)

	resp, err := client.Submit(context.Background(), pizzaPayload())
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":"abc"}`, string(resp.Body))

	require.Len(t, obs.events, 1)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, http.StatusCreated, obs.events[0].StatusCode)
}

func TestHTTPClient_Submit_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"errors":[["boom"]]}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewHTTPClient(Config{Endpoint: srv.URL}, obs)

	_, err := client.Submit(context.Background(), pizzaPayload())
	require.ErrorIs(t, err, ErrUnexpectedStatus)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)

	require.Len(t, obs.events, 1)
	assert.False(t, obs.events[0].Success)
	assert.Equal(t, "STATUS", obs.events[0].ErrorCode)
}

func TestHTTPClient_Submit_InvalidJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("stored"))
	}))
	defer srv.Close()

	client := NewHTTPClient(Config{Endpoint: srv.URL}, nil)

	_, err := client.Submit(context.Background(), pizzaPayload())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestHTTPClient_Submit_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(Config{Endpoint: srv.URL, Timeout: 30 * time.Millisecond}, nil)

	_, err := client.Submit(context.Background(), pizzaPayload())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestHTTPClient_Submit_Unavailable(t *testing.T) {
	client := NewHTTPClient(Config{Endpoint: "http://127.0.0.1:1/dishes"}, nil)

	_, err := client.Submit(context.Background(), pizzaPayload())
	assert.ErrorIs(t, err, ErrUnavailable)
}
