package models

import (
	"errors"
	"testing"
)

func TestEnvironmentStore_CRUD(t *testing.T) {
	s := NewEnvironmentStore()

	staging := &Environment{Name: "staging", Kind: PlatformPromotions, BaseURL: "http://staging"}
	prod := &Environment{Name: "prod", Kind: PlatformPromotions, BaseURL: "http://prod"}
	s.Create(staging)
	s.Create(prod)

	if staging.ID != 1 || prod.ID != 2 {
		t.Fatalf("ids = %d, %d, want 1, 2", staging.ID, prod.ID)
	}

	got, err := s.Resolve(1)
	if err != nil {
		t.Fatalf("Resolve(1): %v", err)
	}
	if got.Name != "staging" {
		t.Errorf("Resolve(1).Name = %q", got.Name)
	}

	_, err = s.Resolve(99)
	var notFound *ErrEnvironmentNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("Resolve(99) error = %T, want *ErrEnvironmentNotFound", err)
	}
	if notFound.ID != 99 {
		t.Errorf("not-found id = %d, want 99", notFound.ID)
	}

	if len(s.List()) != 2 {
		t.Errorf("List returned %d environments, want 2", len(s.List()))
	}

	updated := &Environment{ID: 2, Name: "production", Kind: PlatformPromotions, BaseURL: "http://prod2"}
	if !s.Update(updated) {
		t.Fatal("Update(2) should succeed")
	}
	if s.Update(&Environment{ID: 5}) {
		t.Error("Update of unknown id should fail")
	}
	got, _ = s.Resolve(2)
	if got.Name != "production" {
		t.Errorf("after update, name = %q", got.Name)
	}

	if !s.Delete(1) {
		t.Fatal("Delete(1) should succeed")
	}
	if s.Delete(1) {
		t.Error("double delete should fail")
	}
	if _, err := s.Resolve(1); err == nil {
		t.Error("Resolve after delete should fail")
	}
}

func TestParseAssetKind(t *testing.T) {
	tests := []struct {
		input  string
		expect AssetKind
		ok     bool
	}{
		{"application", KindApplication, true},
		{"applications", KindApplication, true},
		{"loyalty_programs", KindLoyaltyProgram, true},
		{"content_type", KindContentType, true},
		{"wormhole", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseAssetKind(tc.input)
			if tc.ok && (err != nil || got != tc.expect) {
				t.Errorf("ParseAssetKind(%q) = %v, %v", tc.input, got, err)
			}
			if !tc.ok && err == nil {
				t.Errorf("ParseAssetKind(%q) should fail", tc.input)
			}
		})
	}
}

func TestAssetKind_PlatformFor(t *testing.T) {
	if got := KindContentType.PlatformFor(); got != PlatformCMS {
		t.Errorf("content_type platform = %q, want cms", got)
	}
	if got := KindApplication.PlatformFor(); got != PlatformPromotions {
		t.Errorf("application platform = %q, want promotions-engine", got)
	}
}
