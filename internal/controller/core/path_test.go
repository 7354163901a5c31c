package core

import "testing"

func TestModuleAllowed(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		patterns []string
		want     bool
	}{
		{
			name: "empty allow-list allows everything",
			path: "/anywhere/module.wasm",
			want: true,
		},
		{
			name:     "exact match",
			path:     "/opt/modules/ring.wasm",
			patterns: []string{"/opt/modules/ring.wasm"},
			want:     true,
		},
		{
			name:     "recursive glob",
			path:     "/opt/modules/bench/nested/allreduce.wasm",
			patterns: []string{"/opt/modules/**/*.wasm"},
			want:     true,
		},
		{
			name:     "single star does not cross directories",
			path:     "/opt/modules/bench/allreduce.wasm",
			patterns: []string{"/opt/modules/*.wasm"},
			want:     false,
		},
		{
			name:     "path is cleaned before matching",
			path:     "/opt/modules/../modules/./ring.wasm",
			patterns: []string{"/opt/modules/*.wasm"},
			want:     true,
		},
		{
			name:     "escaping the tree is rejected",
			path:     "/opt/modules/../../etc/passwd",
			patterns: []string{"/opt/modules/**"},
			want:     false,
		},
		{
			name:     "second pattern matches",
			path:     "/home/alice/jacobi.wasm",
			patterns: []string{"/opt/modules/**", "/home/*/*.wasm"},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ModuleAllowed(tt.path, tt.patterns)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ModuleAllowed(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
			}
		})
	}
}

func TestValidatePatterns(t *testing.T) {
	if err := ValidatePatterns([]string{"/opt/**/*.wasm", "*.wasm"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePatterns([]string{"/opt/[modules"}); err == nil {
		t.Error("expected error for unterminated character class")
	}
}
