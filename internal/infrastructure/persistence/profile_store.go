package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"netprofile-agent/internal/domain/entities"
	domainerrors "netprofile-agent/internal/domain/errors"
)

// SQLiteProfileStore keeps named configuration profiles. Profile names
// are case-sensitive: "Office" and "office" are distinct rows.
type SQLiteProfileStore struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewSQLiteProfileStore creates the store and its table if missing.
func NewSQLiteProfileStore(db *sql.DB, logger *logrus.Logger) (*SQLiteProfileStore, error) {
	const schema = `
		CREATE TABLE IF NOT EXISTS profiles (
			name        TEXT PRIMARY KEY,
			mode        TEXT NOT NULL,
			address     TEXT NOT NULL DEFAULT '',
			subnet_mask TEXT NOT NULL DEFAULT '',
			gateway     TEXT NOT NULL DEFAULT '',
			dns_servers TEXT NOT NULL DEFAULT '',
			updated_at  TEXT NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create profiles table: %w", err)
	}
	return &SQLiteProfileStore{db: db, logger: logger}, nil
}

// Save stores a profile, overwriting an existing one with the same name.
// The configuration is validated before it is persisted.
func (s *SQLiteProfileStore) Save(ctx context.Context, profile entities.Profile) error {
	if profile.Name == "" {
		return domainerrors.NewValidationError("profile_name_empty", "profile name must not be empty", nil)
	}
	if err := profile.Config.Validate(); err != nil {
		return domainerrors.NewValidationError("invalid_config",
			fmt.Sprintf("profile %q is invalid", profile.Name), err)
	}

	const query = `
		INSERT INTO profiles
			(name, mode, address, subnet_mask, gateway, dns_servers, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			mode = excluded.mode,
			address = excluded.address,
			subnet_mask = excluded.subnet_mask,
			gateway = excluded.gateway,
			dns_servers = excluded.dns_servers,
			updated_at = excluded.updated_at`

	cfg := profile.Config.Normalized()
	_, err := s.db.ExecContext(ctx, query,
		profile.Name,
		string(cfg.Mode),
		cfg.Address,
		cfg.SubnetMask,
		cfg.Gateway,
		joinDNS(cfg.DNSServers),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile %s: %w", profile.Name, err)
	}

	s.logger.WithField("profile", profile.Name).Debug("Profile saved")
	return nil
}

// Get returns the named profile, or nil when it does not exist.
func (s *SQLiteProfileStore) Get(ctx context.Context, name string) (*entities.Profile, error) {
	const query = `
		SELECT mode, address, subnet_mask, gateway, dns_servers
		FROM profiles WHERE name = ?`

	var mode, address, mask, gateway, dns string
	err := s.db.QueryRowContext(ctx, query, name).
		Scan(&mode, &address, &mask, &gateway, &dns)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", name, err)
	}

	return &entities.Profile{
		Name: name,
		Config: entities.NetworkConfig{
			Mode:       entities.Mode(mode),
			Address:    address,
			SubnetMask: mask,
			Gateway:    gateway,
			DNSServers: splitDNS(dns),
		},
	}, nil
}

// List returns all profiles ordered by name.
func (s *SQLiteProfileStore) List(ctx context.Context) ([]entities.Profile, error) {
	const query = `
		SELECT name, mode, address, subnet_mask, gateway, dns_servers
		FROM profiles ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []entities.Profile
	for rows.Next() {
		var name, mode, address, mask, gateway, dns string
		if err := rows.Scan(&name, &mode, &address, &mask, &gateway, &dns); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		profiles = append(profiles, entities.Profile{
			Name: name,
			Config: entities.NetworkConfig{
				Mode:       entities.Mode(mode),
				Address:    address,
				SubnetMask: mask,
				Gateway:    gateway,
				DNSServers: splitDNS(dns),
			},
		})
	}
	return profiles, rows.Err()
}

// Delete removes the named profile. Deleting a missing profile is not
// an error.
func (s *SQLiteProfileStore) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", name, err)
	}
	return nil
}

// profileDocument is the YAML shape used by Import and Export.
type profileDocument struct {
	Profiles map[string]entities.NetworkConfig `yaml:"profiles"`
}

// Export serializes all stored profiles as a YAML document.
func (s *SQLiteProfileStore) Export(ctx context.Context) ([]byte, error) {
	profiles, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	doc := profileDocument{Profiles: make(map[string]entities.NetworkConfig, len(profiles))}
	for i := range profiles {
		doc.Profiles[profiles[i].Name] = profiles[i].Config
	}
	return yaml.Marshal(&doc)
}

// Import loads profiles from a YAML document produced by Export. Every
// profile is validated before any is saved; an invalid document leaves
// the store untouched. Returns the number of profiles imported.
func (s *SQLiteProfileStore) Import(ctx context.Context, data []byte) (int, error) {
	var doc profileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return 0, domainerrors.NewValidationError("invalid_profile_document",
			"profile document is not valid YAML", err)
	}

	names := make([]string, 0, len(doc.Profiles))
	for name, cfg := range doc.Profiles {
		if name == "" {
			return 0, domainerrors.NewValidationError("profile_name_empty",
				"profile document contains an empty profile name", nil)
		}
		if err := cfg.Validate(); err != nil {
			return 0, domainerrors.NewValidationError("invalid_config",
				fmt.Sprintf("profile %q is invalid", name), err)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cfg := doc.Profiles[name]
		if err := s.Save(ctx, entities.Profile{Name: name, Config: cfg}); err != nil {
			return 0, err
		}
	}

	s.logger.WithField("count", len(names)).Info("Profiles imported")
	return len(names), nil
}
