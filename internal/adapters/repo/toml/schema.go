package toml

import "fmt"

const currentSchemaVersion = 1

type usersFile struct {
	Version int          `toml:"version"`
	Users   []userRecord `toml:"users"`
}

func (f *usersFile) applyDefaults() {
	if f.Version == 0 {
		f.Version = currentSchemaVersion
	}
}

func (f usersFile) validateVersion() error {
	if f.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported users schema version %d (current %d)", f.Version, currentSchemaVersion)
	}

	return nil
}

type userRecord struct {
	Username     string `toml:"username"`
	PasswordHash string `toml:"password_hash"`
	CreatedAt    string `toml:"created_at,omitempty"`
}
