package ctl_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hidmux/internal/server/ctl"
)

func TestRouterMatch(t *testing.T) {
	r := ctl.NewRouter()
	noop := func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error { return nil }
	r.Register("ping", noop)
	r.Register("device/list", noop)
	r.Register("device/{id}", noop)

	tests := []struct {
		name           string
		path           string
		shouldMatch    bool
		expectedParams map[string]string
	}{
		{"literal", "ping", true, map[string]string{}},
		{"case insensitive", "PING", true, map[string]string{}},
		{"two-part literal wins over placeholder", "device/list", true, map[string]string{}},
		{"placeholder extraction", "device/3", true, map[string]string{"id": "3"}},
		{"unknown path", "nope", false, nil},
		{"wrong arity", "device/3/extra", false, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, params := r.Match(tc.path)
			if !tc.shouldMatch {
				assert.Nil(t, h)
				return
			}
			require.NotNil(t, h)
			assert.Equal(t, tc.expectedParams, params)
		})
	}
}
