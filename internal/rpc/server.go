package rpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// Handler answers one JSON-RPC method call. A nil *Error paired with a
// non-nil result is success; any other combination is reported to the
// caller as the given JSON-RPC error.
type Handler func(params json.RawMessage) (any, *Error)

// Server is a line-delimited JSON-RPC 2.0 server over a fixed, closed
// dispatch table — spec.md §6's "closed list of operations mapping
// one-to-one to Query Engine and Context Builder operations."
type Server struct {
	methods map[string]Handler
	log     *slog.Logger
}

// New returns a Server with no methods registered. Register each method
// via Handle before calling Serve.
func New(log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{methods: map[string]Handler{}, log: log}
}

// Handle registers a method in the dispatch table. Calling Handle with a
// name already present overwrites the prior handler, which only the
// package's own fixed dispatch-table wiring (see methods.go) does at
// startup — there's no runtime method registration surface.
func (s *Server) Handle(method string, h Handler) {
	s.methods[method] = h
}

// Serve reads one JSON-RPC request per line from r and writes one
// response per line to w, until r is exhausted or ctx-independent read
// error occurs. Each line is handled independently; a malformed line
// yields a parse-error response rather than terminating the loop, so one
// bad request from a misbehaving client doesn't kill the session.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		resp := s.handleLine(line)
		if resp == nil {
			continue
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("rpc: write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("rpc: read request: %w", err)
	}
	return nil
}

func (s *Server) handleLine(line []byte) *Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.log.Warn("rpc.parse_error", "err", err)
		return errorResponse(nil, CodeParseError, "parse error", err.Error())
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		return errorResponse(req.ID, CodeInvalidRequest, "invalid request", nil)
	}

	handler, ok := s.methods[req.Method]
	if !ok {
		return errorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method), nil)
	}

	result, rpcErr := handler(req.Params)
	if rpcErr != nil {
		return &Response{JSONRPC: "2.0", ID: req.ID, Error: rpcErr}
	}
	return successResponse(req.ID, result)
}

// decodeParams unmarshals raw into dst, wrapping any failure as an
// invalid-params error rather than letting the caller see a raw
// json.Unmarshal error.
func decodeParams(raw json.RawMessage, dst any) *Error {
	if len(raw) == 0 {
		return &Error{Code: CodeInvalidParams, Message: "missing params"}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &Error{Code: CodeInvalidParams, Message: "invalid params", Data: err.Error()}
	}
	return nil
}

// internalError wraps a handler's own failure (store/query/context error,
// not a malformed request) as a JSON-RPC internal-error response.
func internalError(err error) *Error {
	return &Error{Code: CodeInternalError, Message: "internal error", Data: err.Error()}
}
