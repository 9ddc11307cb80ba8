package query

import (
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

func node(id string, kind graphmodel.NodeKind, name, path string) *graphmodel.Node {
	return &graphmodel.Node{
		ID:            id,
		Kind:          kind,
		Name:          name,
		QualifiedName: path + "::" + name,
		FilePath:      path,
	}
}

// seedCallGraph builds the scenario from spec.md §8.4-8.5: AuthService.login
// and AuthService.register both call generate_token; generate_token is also
// called (transitively) by OrderService.pay_order via PaymentService.process_payment.
func seedCallGraph(t *testing.T, st *store.Store) {
	t.Helper()
	nodes := []*graphmodel.Node{
		node("fn:login", graphmodel.KindMethod, "login", "auth.go"),
		node("fn:register", graphmodel.KindMethod, "register", "auth.go"),
		node("fn:process_payment", graphmodel.KindMethod, "process_payment", "payment.go"),
		node("fn:refund_payment", graphmodel.KindMethod, "refund_payment", "payment.go"),
		node("fn:pay_order", graphmodel.KindMethod, "pay_order", "order.go"),
		node("fn:generate_token", graphmodel.KindFunction, "generate_token", "tokens.go"),
		node("fn:find_user", graphmodel.KindFunction, "find_user_by_email", "db.go"),
		node("fn:verify_password", graphmodel.KindFunction, "verify_password", "auth.go"),
	}
	for _, p := range []string{"auth.go", "payment.go", "order.go", "tokens.go", "db.go"} {
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
		{SourceID: "fn:login", TargetID: "fn:generate_token", Kind: graphmodel.EdgeCalls, Resolved: true},
		{SourceID: "fn:login", TargetID: "fn:find_user", Kind: graphmodel.EdgeCalls, Resolved: true},
		{SourceID: "fn:login", TargetID: "fn:verify_password", Kind: graphmodel.EdgeCalls, Resolved: true},
		{SourceID: "fn:register", TargetID: "fn:generate_token", Kind: graphmodel.EdgeCalls, Resolved: true},
		{SourceID: "fn:process_payment", TargetID: "fn:generate_token", Kind: graphmodel.EdgeCalls, Resolved: true},
		{SourceID: "fn:refund_payment", TargetID: "fn:generate_token", Kind: graphmodel.EdgeCalls, Resolved: true},
		{SourceID: "fn:pay_order", TargetID: "fn:process_payment", Kind: graphmodel.EdgeCalls, Resolved: true},
	}
	if err := st.InsertEdges(edges); err != nil {
		t.Fatalf("InsertEdges: %v", err)
	}
}

func TestGetCallersReturnsAllDirectCallers(t *testing.T) {
	st := openTestStore(t)
	seedCallGraph(t, st)
	e := New(st)

	callers, err := e.GetCallers("fn:generate_token")
	if err != nil {
		t.Fatalf("GetCallers: %v", err)
	}
	if len(callers) != 4 {
		t.Fatalf("expected 4 callers, got %d: %+v", len(callers), callers)
	}
	for i := 1; i < len(callers); i++ {
		if callers[i-1].ID > callers[i].ID {
			t.Errorf("callers not sorted by id: %s before %s", callers[i-1].ID, callers[i].ID)
		}
	}
}

func TestGetCalleesReturnsExactSet(t *testing.T) {
	st := openTestStore(t)
	seedCallGraph(t, st)
	e := New(st)

	callees, err := e.GetCallees("fn:login")
	if err != nil {
		t.Fatalf("GetCallees: %v", err)
	}
	want := map[string]bool{"fn:generate_token": true, "fn:find_user": true, "fn:verify_password": true}
	if len(callees) != len(want) {
		t.Fatalf("expected %d callees, got %d: %+v", len(want), len(callees), callees)
	}
	for _, c := range callees {
		if !want[c.ID] {
			t.Errorf("unexpected callee %s", c.ID)
		}
	}
}

func TestGetImpactRadiusIncludesTransitiveCallers(t *testing.T) {
	st := openTestStore(t)
	seedCallGraph(t, st)
	e := New(st)

	radius, err := e.GetImpactRadius("fn:generate_token", Options{MaxDepth: 2})
	if err != nil {
		t.Fatalf("GetImpactRadius: %v", err)
	}

	byID := map[string]*ImpactNode{}
	for _, n := range radius.Nodes {
		byID[n.Node.ID] = n
	}
	for _, id := range []string{"fn:login", "fn:register", "fn:process_payment", "fn:refund_payment"} {
		n, ok := byID[id]
		if !ok {
			t.Errorf("expected direct caller %s in impact radius", id)
			continue
		}
		if n.Hop != 1 || n.Risk != RiskCritical {
			t.Errorf("%s: expected hop 1 / critical, got hop %d / %s", id, n.Hop, n.Risk)
		}
	}
	if n, ok := byID["fn:pay_order"]; !ok || n.Hop != 2 || n.Risk != RiskHigh {
		t.Errorf("expected fn:pay_order at hop 2 / high, got %+v", n)
	}
}

func TestTraverseRespectsMaxNodes(t *testing.T) {
	st := openTestStore(t)
	seedCallGraph(t, st)
	e := New(st)

	sub, err := e.Traverse([]string{"fn:login"}, Options{MaxDepth: 3, MaxNodes: 2})
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	if len(sub.Nodes) > 2 {
		t.Errorf("expected at most 2 nodes, got %d", len(sub.Nodes))
	}
}

func TestFindPathsFindsShortestFirst(t *testing.T) {
	st := openTestStore(t)
	seedCallGraph(t, st)
	e := New(st)

	paths, err := e.FindPaths("fn:pay_order", "fn:generate_token", 3, 5)
	if err != nil {
		t.Fatalf("FindPaths: %v", err)
	}
	if len(paths) == 0 {
		t.Fatal("expected at least one path")
	}
	if got := len(paths[0].Nodes); got != 3 {
		t.Errorf("expected the shortest path to have 3 nodes (pay_order -> process_payment -> generate_token), got %d", got)
	}
}

func TestFindPathsReturnsNoneWhenUnreachable(t *testing.T) {
	st := openTestStore(t)
	seedCallGraph(t, st)
	e := New(st)

	paths, err := e.FindPaths("fn:generate_token", "fn:pay_order", 3, 5)
	if err != nil {
		t.Fatalf("FindPaths: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("expected no paths against call direction, got %d", len(paths))
	}
}

func TestSearchNodesRanksByKindAndMatch(t *testing.T) {
	st := openTestStore(t)
	seedCallGraph(t, st)
	e := New(st)

	results, err := e.SearchNodes("generate_token", SearchOptions{})
	if err != nil {
		t.Fatalf("SearchNodes: %v", err)
	}
	if len(results) == 0 || results[0].Node.ID != "fn:generate_token" {
		t.Fatalf("expected generate_token as top hit, got %+v", results)
	}
}

func TestSearchNodesDropsStopWordsAndShortTerms(t *testing.T) {
	st := openTestStore(t)
	seedCallGraph(t, st)
	e := New(st)

	results, err := e.SearchNodes("the a of to", SearchOptions{})
	if err != nil {
		t.Fatalf("SearchNodes: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results when every term is filtered out, got %+v", results)
	}
}

func TestSearchNodesFindsNothingForUnrelatedTerm(t *testing.T) {
	st := openTestStore(t)
	seedCallGraph(t, st)
	e := New(st)

	results, err := e.SearchNodes("nonexistentxyz", SearchOptions{})
	if err != nil {
		t.Fatalf("SearchNodes: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no matches, got %+v", results)
	}
}
