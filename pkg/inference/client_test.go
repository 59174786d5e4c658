package inference

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptionSendsImageField(t *testing.T) {
	var gotName, gotType string
	var gotBytes []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		gotBytes, _ = io.ReadAll(file)
		gotName = header.Filename
		gotType = header.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"data":["một con chó", "ignored"]}`))
	}))
	defer srv.Close()

	caption, err := NewClient(srv.URL, 0).Caption(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "một con chó", caption)
	assert.Equal(t, "image.jpg", gotName)
	assert.Equal(t, "image/jpeg", gotType)
	assert.Equal(t, []byte("img"), gotBytes)
}

func TestCaptionResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr bool
	}{
		{name: "empty data", status: http.StatusOK, body: `{"data":[]}`, want: ""},
		{name: "missing data", status: http.StatusOK, body: `{}`, want: ""},
		{name: "non-string caption", status: http.StatusOK, body: `{"data":[42]}`, want: "42"},
		{name: "upstream error", status: http.StatusBadGateway, body: `down`, wantErr: true},
		{name: "bad json", status: http.StatusOK, body: `not json`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := NewClient(srv.URL, 0).Caption(context.Background(), []byte("img"))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", 0)
	assert.Equal(t, DefaultEndpoint, c.endpoint)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
}
