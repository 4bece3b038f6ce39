package signal

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginPolicy(t *testing.T) {
	p := newOriginPolicy([]string{" HTTP://Localhost:8080 ", "not a url", ""})

	tests := []struct {
		origin string
		want   bool
	}{
		{origin: "", want: true},
		{origin: "http://localhost:8080", want: true},
		{origin: "http://LOCALHOST:8080", want: true},
		{origin: "http://evil.example", want: false},
		{origin: "::", want: false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/api/socket_io", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		assert.Equalf(t, tt.want, p.check(r), "origin %q", tt.origin)
	}

	all := newOriginPolicy([]string{"*"})
	r := httptest.NewRequest("GET", "/api/socket_io", nil)
	r.Header.Set("Origin", "http://anything.example")
	assert.True(t, all.check(r))
}
