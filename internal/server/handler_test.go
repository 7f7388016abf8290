package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duustin25/vigenere-cipher-system/pkg/config"
	"github.com/duustin25/vigenere-cipher-system/pkg/domain"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}

	srv := New(Options{Config: cfg})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postCipher(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(ts.URL+"/v1/cipher", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestComputeEncode(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postCipher(t, ts, `{"text":"HELLO","key":"KEY","mode":"encode","mod":26}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body computeResponse
	decodeBody(t, resp, &body)

	assert.Equal(t, "RIJVS", body.Output)
	assert.Equal(t, "encode", body.Mode)
	assert.Equal(t, 26, body.Mod)
	require.Len(t, body.Trace, 5)
	assert.Equal(t, "(7 + 10) mod 26 = 17", body.Trace[0].Formula)
	assert.Equal(t, "R", body.Trace[0].OutChar)
}

func TestComputeDecodeRoundTrip(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postCipher(t, ts, `{"text":"RIJVS","key":"KEY","mode":"decode","mod":26}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body computeResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "HELLO", body.Output)
}

func TestComputeUppercasesInputs(t *testing.T) {
	// The adapter owns case normalization; lowercase input succeeds
	// here even though the engine itself would reject it.
	ts := newTestServer(t, nil)

	resp := postCipher(t, ts, `{"text":"hello","key":"key","mode":"encode","mod":26}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body computeResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "RIJVS", body.Output)
}

func TestComputeDefaultsModulus(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) {
		c.Cipher.DefaultModulus = 27
	})

	resp := postCipher(t, ts, `{"text":"HELLO WORLD","key":"KEY","mode":"encode"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body computeResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, 27, body.Mod)
}

func TestComputeValidationFailure(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postCipher(t, ts, `{"text":"HELLO WORLD","key":"KEY","mode":"encode","mod":26}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body domain.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, domain.CodeInvalidTextCharacter, body.Code)
	assert.Equal(t, "plaintext", body.Field)
	assert.Contains(t, body.Message, "A-Z only")
}

func TestComputeEmptyKey(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postCipher(t, ts, `{"text":"HELLO","key":"","mode":"encode","mod":26}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body domain.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, domain.CodeEmptyKey, body.Code)
	assert.Equal(t, "key", body.Field)
}

func TestComputeUnsupportedModulus(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postCipher(t, ts, `{"text":"HELLO","key":"KEY","mode":"encode","mod":25}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body domain.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, domain.CodeUnsupportedModulus, body.Code)
	assert.Equal(t, "mod", body.Field)
}

func TestComputeModulusOutOfRange(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, body := range []string{
		`{"text":"A","key":"A","mode":"encode","mod":201}`,
		`{"text":"A","key":"A","mode":"encode","mod":-1}`,
	} {
		resp := postCipher(t, ts, body)
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var errResp domain.ErrorResponse
		decodeBody(t, resp, &errResp)
		assert.Equal(t, domain.CodeModulusOutOfRange, errResp.Code)
		assert.Equal(t,
			fmt.Sprintf("mod must be between %d and %d", config.MinModulus, config.MaxModulus),
			errResp.Message)
	}
}

func TestComputeInvalidMode(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postCipher(t, ts, `{"text":"A","key":"A","mode":"rot13","mod":26}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body domain.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, domain.CodeInvalidMode, body.Code)
	assert.Equal(t, "mode", body.Field)
}

func TestComputeBadJSON(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postCipher(t, ts, `{"text":`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body domain.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, domain.CodeBadRequest, body.Code)
}

func TestComputeMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/v1/cipher")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestComputeTextLimit(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) {
		c.Cipher.MaxTextLength = 4
	})

	resp := postCipher(t, ts, `{"text":"HELLO","key":"KEY","mode":"encode","mod":26}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body domain.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, domain.CodeTextTooLong, body.Code)
	assert.Equal(t, "plaintext", body.Field)
}

func TestComputeTraceToggle(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) {
		c.Cipher.IncludeTrace = false
	})

	resp := postCipher(t, ts, `{"text":"HELLO","key":"KEY","mode":"encode","mod":26}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body computeResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "RIJVS", body.Output)
	assert.Empty(t, body.Trace)
}

func TestAlphabetsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/v1/alphabets")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Alphabets []alphabetPayload `json:"alphabets"`
	}
	decodeBody(t, resp, &body)

	require.Len(t, body.Alphabets, 3)
	assert.Equal(t, 26, body.Alphabets[0].Mod)
	assert.Equal(t, "A-Z only", body.Alphabets[0].Label)
	assert.Equal(t, 37, body.Alphabets[2].Mod)
	assert.True(t, strings.HasSuffix(body.Alphabets[2].Characters, "9 "))
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	// Generate one computation so the counter families exist.
	resp := postCipher(t, ts, `{"text":"HELLO","key":"KEY","mode":"encode","mod":26}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	metricsResp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	assert.Equal(t, http.StatusOK, metricsResp.StatusCode)
}

func TestRequestIDEchoed(t *testing.T) {
	ts := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "req-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get("X-Request-ID"))
}

func TestRequestIDGenerated(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
