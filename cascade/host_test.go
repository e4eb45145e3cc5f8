package cascade

import "testing"

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"nodeB:8080", "nodeB"},
		{"http://nodeB:8080", "nodeB"},
		{"https://nodeB", "nodeB"},
		{"https://nodeB.example.com:8443/base", "nodeB.example.com/base"},
		{"grpc+h2c://nodeB:9000", "nodeB"},
		{"nodeB", "nodeB"},
		{"http://10.0.0.7:80", "10.0.0.7"},
		{"http://nodeB:8080/x:9090", "nodeB/x:9090"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := NormalizeHost(tc.in); got != tc.want {
				t.Errorf("NormalizeHost(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTargetURL(t *testing.T) {
	tests := []struct {
		host, path, marker, want string
	}{
		{"http://nodeB:8080", "/flush", "cascade=false", "http://nodeB:8080/flush?cascade=false"},
		{"http://nodeB:8080", "/flush?scope=all", "cascade=false", "http://nodeB:8080/flush?scope=all&cascade=false"},
		{"http://nodeB:8080", "/flush", "", "http://nodeB:8080/flush"},
	}
	for _, tc := range tests {
		if got := targetURL(tc.host, tc.path, tc.marker); got != tc.want {
			t.Errorf("targetURL(%q, %q, %q) = %q, want %q", tc.host, tc.path, tc.marker, got, tc.want)
		}
	}
}

func TestIsSelf(t *testing.T) {
	tests := []struct {
		host, id string
		want     bool
	}{
		{"http://nodeA:8080", "nodeA", true},
		{"http://nodeA.internal:8080", "nodeA", true},
		{"http://nodeAB:8080", "nodeA", true},
		{"http://nodeB:8080", "nodeA", false},
	}
	for _, tc := range tests {
		if got := isSelf(tc.host, tc.id); got != tc.want {
			t.Errorf("isSelf(%q, %q) = %v, want %v", tc.host, tc.id, got, tc.want)
		}
	}
}
