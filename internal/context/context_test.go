package ctxbuilder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/codegraph/codegraph/internal/graphmodel"
	"github.com/codegraph/codegraph/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// seedAuthScenario builds spec.md §8.7's context scenario: build_context
// on "fix login bug" should surface AuthService.login, verify_password,
// and the User entity, and exclude OrderService.cancel_order.
func seedAuthScenario(t *testing.T, st *store.Store, root string) {
	t.Helper()
	authSrc := "package auth\n\nfunc Login() {}\n\nfunc VerifyPassword() {}\n"
	orderSrc := "package order\n\nfunc CancelOrder() {}\n"
	if err := os.WriteFile(filepath.Join(root, "auth.go"), []byte(authSrc), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "order.go"), []byte(orderSrc), 0o600); err != nil {
		t.Fatal(err)
	}

	nodes := []*graphmodel.Node{
		{ID: "fn:login", Kind: graphmodel.KindMethod, Name: "Login", QualifiedName: "auth.go::Login",
			FilePath: "auth.go", StartLine: 3, EndLine: 3, Signature: "func Login()"},
		{ID: "fn:verify_password", Kind: graphmodel.KindFunction, Name: "VerifyPassword", QualifiedName: "auth.go::VerifyPassword",
			FilePath: "auth.go", StartLine: 5, EndLine: 5, Signature: "func VerifyPassword()"},
		{ID: "entity:user", Kind: graphmodel.KindStruct, Name: "User", QualifiedName: "auth.go::User",
			FilePath: "auth.go", StartLine: 1, EndLine: 1},
		{ID: "fn:cancel_order", Kind: graphmodel.KindMethod, Name: "CancelOrder", QualifiedName: "order.go::CancelOrder",
			FilePath: "order.go", StartLine: 3, EndLine: 3, Signature: "func CancelOrder()"},
	}
	for _, p := range []string{"auth.go", "order.go"} {
		if err := st.UpsertFile(&graphmodel.FileRecord{Path: p, ContentHash: "h"}); err != nil {
			t.Fatalf("UpsertFile: %v", err)
		}
	}
	for _, n := range nodes {
		if err := st.UpsertNode(n); err != nil {
			t.Fatalf("UpsertNode: %v", err)
		}
	}
	edges := []*graphmodel.Edge{
		{SourceID: "fn:login", TargetID: "fn:verify_password", Kind: graphmodel.EdgeCalls, Resolved: true},
		{SourceID: "fn:login", TargetID: "entity:user", Kind: graphmodel.EdgeReferences, Resolved: true},
	}
	if err := st.InsertEdges(edges); err != nil {
		t.Fatalf("InsertEdges: %v", err)
	}
}

func TestBuildContextSurfacesRelevantEntitiesOnly(t *testing.T) {
	root := t.TempDir()
	st := openTestStore(t)
	seedAuthScenario(t, st, root)

	b := New(st, root)
	doc, err := b.BuildContext(context.Background(), "fix login bug", Options{})
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}

	foundLogin := false
	for _, ep := range doc.EntryPoints {
		if ep.Node.ID == "fn:login" {
			foundLogin = true
		}
	}
	if !foundLogin {
		t.Errorf("expected AuthService.login among entry points, got %+v", doc.EntryPoints)
	}

	allIDs := map[string]bool{}
	for id := range doc.Subgraph.Nodes {
		allIDs[id] = true
	}
	if !allIDs["fn:verify_password"] {
		t.Errorf("expected verify_password reachable in the subgraph, got %+v", allIDs)
	}
	if allIDs["fn:cancel_order"] {
		t.Errorf("expected OrderService.cancel_order excluded, got %+v", allIDs)
	}
}

func TestBuildContextHonorsMaxCodeBlockSize(t *testing.T) {
	root := t.TempDir()
	st := openTestStore(t)
	seedAuthScenario(t, st, root)

	b := New(st, root)
	doc, err := b.BuildContext(context.Background(), "login", Options{MaxCodeBlockSize: 20})
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	if len(doc.CodeBlocks) == 0 {
		t.Fatal("expected at least one code block")
	}
	for _, cb := range doc.CodeBlocks {
		if len(cb.Source) > 20 {
			t.Errorf("code block for %s exceeds max size: %d chars", cb.FilePath, len(cb.Source))
		}
		if !cb.Truncated {
			t.Errorf("expected %s to be marked truncated", cb.FilePath)
		}
	}
}

func TestBuildContextEmptyQueryReturnsEmptyDocument(t *testing.T) {
	root := t.TempDir()
	st := openTestStore(t)
	seedAuthScenario(t, st, root)

	b := New(st, root)
	doc, err := b.BuildContext(context.Background(), "the a of", Options{})
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	if len(doc.EntryPoints) != 0 {
		t.Errorf("expected no entry points for an all-stop-word query, got %+v", doc.EntryPoints)
	}
}

func TestBuildContextCancellation(t *testing.T) {
	root := t.TempDir()
	st := openTestStore(t)
	seedAuthScenario(t, st, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := New(st, root)
	if _, err := b.BuildContext(ctx, "login", Options{}); err == nil {
		t.Error("expected an error from a pre-cancelled context")
	}
}
