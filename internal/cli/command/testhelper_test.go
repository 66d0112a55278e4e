package command

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/skycli/skycli/internal/cli/config"
	"github.com/skycli/skycli/internal/cli/output"
	"github.com/skycli/skycli/internal/core/auth"
	"github.com/skycli/skycli/internal/store"
	"github.com/skycli/skycli/internal/telemetry/logger"
)

const (
	testDID    = "did:plc:test123"
	testHandle = "test.user"
)

// mockServer fakes the XRPC surface; handlers are keyed by method name.
type mockServer struct {
	*httptest.Server
	handlers map[string]http.HandlerFunc
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	m := &mockServer{handlers: make(map[string]http.HandlerFunc)}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := strings.TrimPrefix(r.URL.Path, "/xrpc/")
		if h, ok := m.handlers[method]; ok {
			h(w, r)
			return
		}
		errorResponse(w, http.StatusNotFound, "MethodNotFound", "unknown method "+method)
	}))
	t.Cleanup(m.Close)
	return m
}

func (m *mockServer) handle(method string, h http.HandlerFunc) {
	m.handlers[method] = h
}

// scriptSession wires healthy session endpoints.
func (m *mockServer) scriptSession() {
	body := map[string]string{
		"did":        testDID,
		"handle":     testHandle,
		"accessJwt":  "eyJaccess",
		"refreshJwt": "eyJrefresh",
	}
	m.handle("com.atproto.server.createSession", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, body)
	})
	m.handle("com.atproto.server.getSession", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"did": testDID, "handle": testHandle})
	})
	m.handle("com.atproto.server.refreshSession", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, body)
	})
	m.handle("com.atproto.server.deleteSession", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, status int, code, message string) {
	jsonResponse(w, status, map[string]string{"error": code, "message": message})
}

// testRuntime builds a runtime over a temp store pointed at the mock
// server. The returned buffer captures command output.
func testRuntime(t *testing.T, server *mockServer) (*runtime, *bytes.Buffer) {
	t.Helper()

	key := make([]byte, 32)
	st, err := store.New(t.TempDir(), store.WithKey(key))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}

	log, err := logger.New(logger.Config{Level: "error", Format: "text", Output: io.Discard})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}

	cfg := config.Default()
	cfg.Service = server.URL

	rt := &runtime{
		cfg:   cfg,
		log:   log,
		store: st,
		mgr:   auth.NewManager(st, server.URL, log),
		out:   output.FormatTable,
	}

	var buf bytes.Buffer
	return rt, &buf
}

// testContext builds a cli.Context with parsed args. The runtime's
// output buffer is wired as the app writer.
func testContext(t *testing.T, rt *runtime, buf *bytes.Buffer, flags []cli.Flag, args ...string) *cli.Context {
	t.Helper()

	app := &cli.App{
		Name:      "skycli",
		Writer:    buf,
		ErrWriter: buf,
		Metadata:  map[string]any{"runtime": rt},
	}

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range flags {
		if err := f.Apply(set); err != nil {
			t.Fatalf("apply flag: %v", err)
		}
	}
	if err := set.Parse(args); err != nil {
		t.Fatalf("parse args: %v", err)
	}

	return cli.NewContext(app, set, nil)
}

// login establishes a stored session through the manager.
func login(t *testing.T, rt *runtime) {
	t.Helper()
	if _, err := rt.mgr.Login(context.Background(), testHandle, "test-password", ""); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
}
