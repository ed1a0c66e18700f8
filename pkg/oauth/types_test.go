package oauth

import (
	"testing"
)

func TestPermissionConstants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"PermissionGetDrinksDetail", PermissionGetDrinksDetail, "get:drinks-detail"},
		{"PermissionPostDrinks", PermissionPostDrinks, "post:drinks"},
		{"PermissionPatchDrinks", PermissionPatchDrinks, "patch:drinks"},
		{"PermissionDeleteDrinks", PermissionDeleteDrinks, "delete:drinks"},
		{"ClaimPermissions", ClaimPermissions, "permissions"},
		{"BearerToken", BearerToken, "Bearer"},
		{"HeaderRequestID", HeaderRequestID, "X-Request-ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestPermissions(t *testing.T) {
	t.Parallel()

	got := Permissions()
	if len(got) != 4 {
		t.Fatalf("Permissions() len = %d, want 4", len(got))
	}

	seen := make(map[string]bool)
	for _, p := range got {
		if seen[p] {
			t.Errorf("Permissions() duplicate %q", p)
		}
		seen[p] = true
	}

	// Callers must not be able to mutate the shared list.
	got[0] = "mutated"
	if Permissions()[0] != PermissionGetDrinksDetail {
		t.Error("Permissions() returned shared backing array")
	}
}
