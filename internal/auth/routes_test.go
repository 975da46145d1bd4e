package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPublic(t *testing.T) {
	assert.True(t, IsPublic("/"))
	assert.True(t, IsPublic(SignInPath))
	assert.True(t, IsPublic("/404"))
	assert.False(t, IsPublic(LandingPath))
	assert.False(t, IsPublic("/settings"))
}

func TestDecideNavigation(t *testing.T) {
	tests := []struct {
		name        string
		present     bool
		currentPath string
		want        Navigation
	}{
		{
			name:        "present on sign-in page goes to landing",
			present:     true,
			currentPath: SignInPath,
			want:        Navigation{To: LandingPath, Redirect: true},
		},
		{
			name:        "present on landing stays put",
			present:     true,
			currentPath: LandingPath,
			want:        Navigation{},
		},
		{
			name:        "present on root stays put",
			present:     true,
			currentPath: "/",
			want:        Navigation{},
		},
		{
			name:        "absent on protected path goes to sign-in",
			present:     false,
			currentPath: LandingPath,
			want:        Navigation{To: SignInPath, Redirect: true},
		},
		{
			name:        "absent on sign-in page stays put",
			present:     false,
			currentPath: SignInPath,
			want:        Navigation{},
		},
		{
			name:        "absent on root stays put",
			present:     false,
			currentPath: "/",
			want:        Navigation{},
		},
		{
			name:        "absent on not-found page stays put",
			present:     false,
			currentPath: "/404",
			want:        Navigation{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecideNavigation(tt.present, tt.currentPath))
		})
	}
}
