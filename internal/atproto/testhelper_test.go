package atproto

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Canonical fixture identity used across the client tests.
const (
	testDID        = "did:plc:test123"
	testHandle     = "test.user"
	testAccessJWT  = "eyJaccess.token"
	testRefreshJWT = "eyJrefresh.token"
)

// xrpcServer is a minimal XRPC endpoint fake. Handlers are registered
// by method name; unregistered methods 404.
type xrpcServer struct {
	*httptest.Server
	handlers map[string]http.HandlerFunc
}

func newXRPCServer(t *testing.T) *xrpcServer {
	t.Helper()
	s := &xrpcServer{handlers: make(map[string]http.HandlerFunc)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[len("/xrpc/"):]
		if h, ok := s.handlers[method]; ok {
			h(w, r)
			return
		}
		writeXRPCError(w, http.StatusNotFound, "MethodNotFound", "unknown method "+method)
	}))
	t.Cleanup(s.Close)
	return s
}

// handle registers a handler for one XRPC method.
func (s *xrpcServer) handle(method string, h http.HandlerFunc) {
	s.handlers[method] = h
}

// handleJSON registers a handler that responds 200 with the given body.
func (s *xrpcServer) handleJSON(method string, body any) {
	s.handle(method, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, body)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeXRPCError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, map[string]string{"error": errCode, "message": message})
}

// sessionBody is the wire shape of the session endpoints.
func sessionBody() map[string]string {
	return map[string]string{
		"did":        testDID,
		"handle":     testHandle,
		"accessJwt":  testAccessJWT,
		"refreshJwt": testRefreshJWT,
	}
}

// testSessionInfo returns a stored-credentials fixture.
func testSessionInfo() *SessionInfo {
	return &SessionInfo{
		DID:        testDID,
		Handle:     testHandle,
		AccessJWT:  testAccessJWT,
		RefreshJWT: testRefreshJWT,
	}
}
