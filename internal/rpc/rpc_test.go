package rpc

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	context "github.com/codegraph/codegraph/internal/context"
	"github.com/codegraph/codegraph/internal/graphmodel"
	"github.com/codegraph/codegraph/internal/query"
	"github.com/codegraph/codegraph/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if err := st.UpsertFile(&graphmodel.FileRecord{Path: "a.go", ContentHash: "h"}); err != nil {
		t.Fatalf("UpsertFile: %v", err)
	}
	if err := st.UpsertNode(&graphmodel.Node{
		ID: "fn:a", Kind: graphmodel.KindFunction, Name: "A", QualifiedName: "a.go::A", FilePath: "a.go",
	}); err != nil {
		t.Fatalf("UpsertNode: %v", err)
	}

	q := query.New(st)
	cb := context.New(st, t.TempDir())
	s := New(nil)
	RegisterCodegraphMethods(s, st, q, cb)
	return s
}

func runRequest(t *testing.T, s *Server, line string) Response {
	t.Helper()
	var out bytes.Buffer
	if err := s.Serve(strings.NewReader(line+"\n"), &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	var resp Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v (raw: %s)", err, out.String())
	}
	return resp
}

func TestServeReturnsParseErrorOnMalformedLine(t *testing.T) {
	s := newTestServer(t)
	resp := runRequest(t, s, "{not json")
	if resp.Error == nil || resp.Error.Code != CodeParseError {
		t.Fatalf("expected parse error, got %+v", resp)
	}
}

func TestServeReturnsInvalidRequestOnMissingMethod(t *testing.T) {
	s := newTestServer(t)
	resp := runRequest(t, s, `{"jsonrpc":"2.0","id":1}`)
	if resp.Error == nil || resp.Error.Code != CodeInvalidRequest {
		t.Fatalf("expected invalid request, got %+v", resp)
	}
}

func TestServeReturnsMethodNotFoundForUnknownMethod(t *testing.T) {
	s := newTestServer(t)
	resp := runRequest(t, s, `{"jsonrpc":"2.0","id":1,"method":"codegraph.doesNotExist"}`)
	if resp.Error == nil || resp.Error.Code != CodeMethodNotFound {
		t.Fatalf("expected method not found, got %+v", resp)
	}
}

func TestServeReturnsInvalidParamsOnMissingRequiredField(t *testing.T) {
	s := newTestServer(t)
	resp := runRequest(t, s, `{"jsonrpc":"2.0","id":1,"method":"codegraph.searchNodes","params":{}}`)
	if resp.Error == nil || resp.Error.Code != CodeInvalidParams {
		t.Fatalf("expected invalid params, got %+v", resp)
	}
}

func TestServeDispatchesGetCallersSuccessfully(t *testing.T) {
	s := newTestServer(t)
	resp := runRequest(t, s, `{"jsonrpc":"2.0","id":1,"method":"codegraph.getCallers","params":{"id":"fn:a"}}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	if resp.Result == nil {
		t.Fatalf("expected a non-nil result, got %+v", resp)
	}
}

func TestServeDispatchesStatusSuccessfully(t *testing.T) {
	s := newTestServer(t)
	resp := runRequest(t, s, `{"jsonrpc":"2.0","id":1,"method":"codegraph.status"}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	if resp.Result == nil {
		t.Fatalf("expected a non-nil result, got %+v", resp)
	}
}

func TestServeHandlesMultipleLinesIndependently(t *testing.T) {
	s := newTestServer(t)
	input := `{"jsonrpc":"2.0","id":1,"method":"codegraph.status"}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"codegraph.unknown"}` + "\n"

	var out bytes.Buffer
	if err := s.Serve(strings.NewReader(input), &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 response lines, got %d: %q", len(lines), out.String())
	}
	var first, second Response
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatal(err)
	}
	if first.Error != nil {
		t.Errorf("expected first request to succeed, got %+v", first.Error)
	}
	if second.Error == nil || second.Error.Code != CodeMethodNotFound {
		t.Errorf("expected second request to fail with method not found, got %+v", second)
	}
}
