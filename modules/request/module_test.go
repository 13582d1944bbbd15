package request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/verapi/internal/catalog"
	"github.com/vk/verapi/internal/facade"
	"github.com/vk/verapi/internal/version"
	"github.com/zclconf/go-cty/cty"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(r.Method))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func load(t *testing.T, path string) *Client {
	t.Helper()
	cat := catalog.New(context.Background(), "edge.api")
	cat.Install(&Module{})
	v, err := cat.Load(context.Background(), path)
	require.NoError(t, err)
	return v.(*Client)
}

func TestClient_Call(t *testing.T) {
	srv := newServer(t)

	testCases := []struct {
		name       string
		path       string
		args       []any
		wantBody   string
		wantErrMsg string
	}{
		{name: "v1.0.0 get", path: "edge.api.01.00.00.request", args: []any{srv.URL}, wantBody: "GET"},
		{name: "v1.1 post", path: "edge.api.01.01.request", args: []any{srv.URL, "POST"}, wantBody: "POST"},
		{name: "v1.0.0 rejects method", path: "edge.api.01.00.00.request", args: []any{srv.URL, "POST"}, wantErrMsg: "too many arguments"},
		{name: "missing url", path: "edge.api.01.01.request", wantErrMsg: "url argument is required"},
		{name: "non-string url", path: "edge.api.01.01.request", args: []any{7}, wantErrMsg: "url must be a string"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := load(t, tc.path)
			defer c.Close()

			out, err := c.Call(tc.args...)
			if tc.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErrMsg)
				return
			}
			require.NoError(t, err)
			v := out.(cty.Value)
			assert.Equal(t, cty.StringVal(tc.wantBody), v.GetAttr("body"))
			assert.True(t, v.GetAttr("status_code").RawEquals(cty.NumberIntVal(http.StatusAccepted)))
		})
	}
}

func TestClient_IsBothKinds(t *testing.T) {
	c := load(t, "edge.api.01.01.request")
	p, err := facade.Build(version.New(1, 1, 0), "request", c, nil)
	require.NoError(t, err)
	assert.Equal(t, facade.KindBoth, p.Kind())

	timeout, err := p.Field("timeout")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, timeout)

	allow, err := p.Field("allow_methods")
	require.NoError(t, err)
	assert.Equal(t, true, allow)
}
