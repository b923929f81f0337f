package main

import (
	"strings"
	"testing"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/config"
)

func TestProfileFromEnv(t *testing.T) {
	t.Parallel()

	got, err := profileFromEnv(func(string) string { return "dev" })
	if err != nil || got != "dev" {
		t.Errorf("profileFromEnv() = %q, %v, want %q, nil", got, err, "dev")
	}

	_, err = profileFromEnv(func(string) string { return "" })
	if err == nil {
		t.Fatal("profileFromEnv() error = nil, want error for unset APP_PROFILE")
	}
	for _, profile := range shippedProfiles {
		if !strings.Contains(err.Error(), profile) {
			t.Errorf("profileFromEnv() error = %v, want it to list %q", err, profile)
		}
	}
}

func TestShippedProfilesLoad(t *testing.T) {
	t.Parallel()

	environ := func() []string {
		return []string{"APP_AUTH_SIGNING_KEY=shipped-profile-test-key"}
	}

	for _, profile := range shippedProfiles {
		t.Run(profile, func(t *testing.T) {
			t.Parallel()

			if _, err := config.Load(profile, config.WithConfigDir("../../configs"), config.WithEnviron(environ)); err != nil {
				t.Errorf("config.Load(%q) error = %v", profile, err)
			}
		})
	}
}
