package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalURL(t *testing.T) {
	tests := []struct {
		listenAddr string
		path       string
		want       string
	}{
		{listenAddr: ":8080", path: "/api/health", want: "http://localhost:8080/api/health"},
		{listenAddr: "0.0.0.0:9000", path: "/ui", want: "http://localhost:9000/ui"},
		{listenAddr: "[::]:8080", path: "/ui", want: "http://localhost:8080/ui"},
		{listenAddr: "127.0.0.1:8080", path: "/api/health", want: "http://127.0.0.1:8080/api/health"},
		{listenAddr: "[::1]:8080", path: "/ui", want: "http://[::1]:8080/ui"},
		{listenAddr: "  ", path: "/api/health", want: "http://localhost:8080/api/health"},
		{listenAddr: "dashboard.internal", path: "/ui", want: "http://dashboard.internal/ui"},
	}

	for _, tt := range tests {
		t.Run(tt.listenAddr+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, localURL(tt.listenAddr, tt.path))
		})
	}
}
