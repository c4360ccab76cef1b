package service

import (
	"strings"
	"testing"

	"github.com/daniel-medina/website/internal/domain"
)

// =============================================================================
// Project Validation Tests
// =============================================================================

func TestValidateProject_TitleBounds(t *testing.T) {
	testCases := []struct {
		name  string
		title string
		valid bool
	}{
		{"empty", "", false},
		{"minimum - 1 char", "a", true},
		{"typical", "My website", true},
		{"maximum - 15 chars", strings.Repeat("a", 15), true},
		{"too long - 16 chars", strings.Repeat("a", 16), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateProject(tc.title, "a description", domain.VisibilityPublic)
			if tc.valid && err != nil {
				t.Errorf("expected valid, got error: %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("expected error for invalid title")
			}
		})
	}
}

func TestValidateProject_DescriptionBounds(t *testing.T) {
	testCases := []struct {
		name        string
		description string
		valid       bool
	}{
		{"empty", "", false},
		{"minimum - 1 char", "a", true},
		{"maximum - 100 chars", strings.Repeat("a", 100), true},
		{"too long - 101 chars", strings.Repeat("a", 101), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateProject("title", tc.description, domain.VisibilityPrivate)
			if tc.valid && err != nil {
				t.Errorf("expected valid, got error: %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("expected error for invalid description")
			}
		})
	}
}

func TestValidateProject_Visibility(t *testing.T) {
	if err := validateProject("title", "description", domain.VisibilityPublic); err != nil {
		t.Errorf("public should be valid: %v", err)
	}
	if err := validateProject("title", "description", domain.VisibilityPrivate); err != nil {
		t.Errorf("private should be valid: %v", err)
	}
	if err := validateProject("title", "description", domain.Visibility("hidden")); err == nil {
		t.Error("expected error for unknown visibility")
	}
}

// =============================================================================
// Tag Validation Tests
// =============================================================================

func TestValidateTag(t *testing.T) {
	testCases := []struct {
		name    string
		tagName string
		color   domain.TagColor
		valid   bool
	}{
		{"valid", "Go", domain.TagColorGreen, true},
		{"empty name", "", domain.TagColorGreen, false},
		{"maximum name - 10 chars", strings.Repeat("a", 10), domain.TagColorBlack, true},
		{"too long name - 11 chars", strings.Repeat("a", 11), domain.TagColorBlack, false},
		{"unknown color", "Go", domain.TagColor("purple"), false},
		{"empty color", "Go", domain.TagColor(""), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateTag(tc.tagName, tc.color)
			if tc.valid && err != nil {
				t.Errorf("expected valid, got error: %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("expected error for invalid tag")
			}
		})
	}
}

func TestValidateTag_EveryPaletteColor(t *testing.T) {
	for _, color := range domain.TagColors {
		if err := validateTag("tag", color); err != nil {
			t.Errorf("color %s should be valid: %v", color, err)
		}
	}
}
