package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGateIsPrivileged(t *testing.T) {
	tests := []struct {
		name      string
		admins    []string
		callerID  string
		hasManage bool
		want      bool
	}{
		{
			name:     "ListedAdmin",
			admins:   []string{"123", "456"},
			callerID: "123",
			want:     true,
		},
		{
			name:     "UnlistedCaller",
			admins:   []string{"123"},
			callerID: "999",
			want:     false,
		},
		{
			name:      "ManagePermissionOverridesList",
			admins:    []string{"123"},
			callerID:  "999",
			hasManage: true,
			want:      true,
		},
		{
			name:     "EmptyList",
			admins:   nil,
			callerID: "123",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGate(tt.admins)
			require.Equal(t, tt.want, g.IsPrivileged(tt.callerID, tt.hasManage))
		})
	}
}
