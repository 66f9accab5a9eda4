package langinfo_test

import (
	"testing"

	"github.com/yaklabco/gomdscan/pkg/langinfo"
)

func TestTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		info     string
		expected string
	}{
		{"go", "go"},
		{"golang", "go"},
		{"Go linenums=1", "go"},
		{"js", "javascript"},
		{"sh", "bash"},
		{"", ""},
		{"   ", ""},
		{"madeuplang", "madeuplang"},
	}

	for _, testCase := range tests {
		t.Run(testCase.info, func(t *testing.T) {
			t.Parallel()

			if got := langinfo.Tag(testCase.info); got != testCase.expected {
				t.Errorf("Tag(%q) = %q, want %q", testCase.info, got, testCase.expected)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "shebang bash",
			content:  "#!/bin/bash\necho hi",
			expected: "bash",
		},
		{
			name:     "shebang python",
			content:  "#!/usr/bin/env python3\nprint('hi')",
			expected: "python",
		},
		{
			name:     "go package clause",
			content:  "package main\n\nfunc main() {}\n",
			expected: "go",
		},
		{
			name:     "empty content",
			content:  "",
			expected: langinfo.DefaultTag,
		},
		{
			name:     "whitespace only",
			content:  "  \n\t\n",
			expected: langinfo.DefaultTag,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := langinfo.Detect([]byte(testCase.content)); got != testCase.expected {
				t.Errorf("Detect(%q) = %q, want %q", testCase.content, got, testCase.expected)
			}
		})
	}
}
