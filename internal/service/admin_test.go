package service

import (
	"testing"
	"time"
)

// =============================================================================
// Session Duration Configuration Tests
// =============================================================================

func TestNewAdminService_SessionDuration(t *testing.T) {
	testCases := []struct {
		name     string
		duration time.Duration
		want     time.Duration
	}{
		{"configured value kept", 48 * time.Hour, 48 * time.Hour},
		{"zero falls back to default", 0, DefaultSessionDuration},
		{"negative falls back to default", -time.Hour, DefaultSessionDuration},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewAdminService(nil, nil, AdminConfig{SessionDuration: tc.duration}).(*adminService)
			if svc.cfg.SessionDuration != tc.want {
				t.Errorf("SessionDuration = %v, want %v", svc.cfg.SessionDuration, tc.want)
			}
		})
	}
}
