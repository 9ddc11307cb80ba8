package fqn

import "testing"

func TestCompute(t *testing.T) {
	tests := []struct {
		relPath string
		scopes  []string
		name    string
		want    string
	}{
		{"cmd/server/main.go", nil, "HandleRequest", "cmd/server/main.go::HandleRequest"},
		{"pkg/service/order.go", []string{"OrderService"}, "ProcessOrder", "pkg/service/order.go::OrderService::ProcessOrder"},
		{"pkg/service/order.go", nil, "", "pkg/service/order.go"},
	}
	for _, tt := range tests {
		got := Compute(tt.relPath, tt.scopes, tt.name)
		if got != tt.want {
			t.Errorf("Compute(%q, %v, %q) = %q, want %q", tt.relPath, tt.scopes, tt.name, got, tt.want)
		}
	}
}

func TestIsPackageIndex(t *testing.T) {
	tests := []struct {
		base string
		want bool
	}{
		{"__init__.py", true},
		{"index.ts", true},
		{"index.js", true},
		{"auth.py", false},
		{"main.go", false},
	}
	for _, tt := range tests {
		if got := IsPackageIndex(tt.base); got != tt.want {
			t.Errorf("IsPackageIndex(%q) = %v, want %v", tt.base, got, tt.want)
		}
	}
}
