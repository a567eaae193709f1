package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient("TOKEN")
	c.BaseURL = srv.URL
	return c
}

func TestSendMessage(t *testing.T) {
	var got sendMessageReq
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.SendMessage(context.Background(), 42, "hello"))
	assert.Equal(t, int64(42), got.ChatID)
	assert.Equal(t, "hello", got.Text)
}

func TestSendDocument(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendDocument", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "7", r.FormValue("chat_id"))

		f, hdr, err := r.FormFile("document")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "report.pdf", hdr.Filename)
		assert.Equal(t, "%PDF", string(data))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.SendDocument(context.Background(), 7, []byte("%PDF"), "report.pdf"))
}

func TestErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusBadRequest)
	})

	err := c.SendMessage(context.Background(), 1, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), `{"ok":false}`)
}

func TestEnabled(t *testing.T) {
	assert.False(t, NewClient("").Enabled())
	assert.True(t, NewClient("t").Enabled())
	var c *Client
	assert.False(t, c.Enabled())
}
