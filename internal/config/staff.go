package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// StaffContact is one roster entry shown in the sign-off dropdowns.
type StaffContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StaffRoster lists who may sign a checklist.  Packers sign packing lists;
// All sign pickup lists.
type StaffRoster struct {
	Packers []StaffContact `json:"packers"`
	All     []StaffContact `json:"all"`
}

// LoadStaffRoster reads the roster JSON file.  An empty path yields an empty
// roster.
func LoadStaffRoster(path string) (StaffRoster, error) {
	var r StaffRoster
	if path == "" {
		return r, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("read staff roster: %w", err)
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return r, fmt.Errorf("parse staff roster: %w", err)
	}
	if r.Packers == nil {
		r.Packers = []StaffContact{}
	}
	if r.All == nil {
		r.All = []StaffContact{}
	}
	return r, nil
}

// List returns the packer list for "packer" and the full list otherwise.
func (r StaffRoster) List(kind string) []StaffContact {
	if kind == "packer" {
		return r.Packers
	}
	return r.All
}

// EmailFor looks up a signer's email by display name in the list for kind.
func (r StaffRoster) EmailFor(kind, name string) string {
	for _, s := range r.List(kind) {
		if strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(name)) {
			return s.Email
		}
	}
	return ""
}
