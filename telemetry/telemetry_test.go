package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestSetupDisabled(t *testing.T) {
	tel, err := Setup(context.Background(), "carposter-test", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestConfigEnabled(t *testing.T) {
	require.False(t, Config{}.Enabled())
	require.True(t, Config{HttpEndpoint: "http://localhost:4318"}.Enabled())
	require.True(t, Config{GrpcEndpoint: "http://localhost:4317"}.Enabled())
}

func TestInstrumentRestyPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := resty.New()
	InstrumentResty(client, "carposter-test")

	res, err := client.R().SetContext(context.Background()).Get(srv.URL + "/")
	require.NoError(t, err)
	require.Equal(t, "ok", res.String())

	res, err = client.R().Get(srv.URL + "/missing")
	require.NoError(t, err)
	require.True(t, res.IsError())
}
