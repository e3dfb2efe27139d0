// Package conf loads the per-repository watch config at
// <root>/.dx/forge/config.json and fills in any value the file omits.
package conf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"

	forgeerrors "github.com/sjzar/forge/internal/errors"
	"github.com/sjzar/forge/pkg/config"
)

const (
	AppName      = "forge"
	EnvPrefix    = "DX"
	ConfigDirRel = ".dx/forge"
	ConfigName   = "config"
)

// Config is the on-disk shape of <root>/.dx/forge/config.json.
type Config struct {
	ActorID string `mapstructure:"actor_id" json:"actor_id"`
	RepoID  string `mapstructure:"repo_id" json:"repo_id"`

	// Profile enables per-event rapid/quality timing logs (DX_WATCH_PROFILE).
	Profile bool `mapstructure:"watch_profile" json:"watch_profile"`

	// DisableRapid runs quality detection on every event, bypassing the
	// rapid tier (DX_DISABLE_RAPID_MODE).
	DisableRapid bool `mapstructure:"disable_rapid_mode" json:"disable_rapid_mode"`
}

// Load reads root's config.json, applying defaults for any field the file
// omits or doesn't yet exist. RepoID defaults to a deterministic digest of
// root's absolute path, so the same absolute path always maps to the same
// id; a checkout at a different path gets a different id.
func Load(root string) (*Config, *config.Manager, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, forgeerrors.Config("resolve repo root", err).WithStack()
	}

	dir := filepath.Join(absRoot, ConfigDirRel)
	cm, err := config.New(AppName, dir, ConfigName, EnvPrefix, true)
	if err != nil {
		return nil, nil, forgeerrors.Config("init config manager", err).WithStack()
	}

	cm.Viper.SetDefault("repo_id", defaultRepoID(absRoot))
	cm.Viper.SetDefault("watch_profile", false)
	cm.Viper.SetDefault("disable_rapid_mode", false)

	conf := &Config{}
	if err := cm.Load(conf); err != nil {
		return nil, nil, forgeerrors.Config("load config", err).WithStack()
	}

	if conf.ActorID == "" {
		return nil, nil, forgeerrors.Config("actor_id is required in "+filepath.Join(dir, ConfigName+".json"), nil)
	}

	applyEnvOverrides(conf)

	log.Info().Str("repo_id", conf.RepoID).Str("actor_id", conf.ActorID).Msg("watch config loaded")
	return conf, cm, nil
}

// applyEnvOverrides layers DX_WATCH_PROFILE/DX_DISABLE_RAPID_MODE on top of
// viper's AutomaticEnv: the manager's own prefix is derived from AppName
// ("FORGE_..."), not the DX_ convention these two toggles use, so they're
// read directly rather than renaming the app to make viper's prefix match.
func applyEnvOverrides(conf *Config) {
	if v, ok := os.LookupEnv("DX_WATCH_PROFILE"); ok {
		conf.Profile = isTruthy(v)
	}
	if v, ok := os.LookupEnv("DX_DISABLE_RAPID_MODE"); ok {
		conf.DisableRapid = isTruthy(v)
	}
}

func isTruthy(v string) bool {
	switch v {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	default:
		return false
	}
}

// defaultRepoID derives a stable local identifier for a repo root that
// hasn't been assigned one by a coordinating server, mirroring the
// "local-<digest>" convention of repos that have been assigned one.
func defaultRepoID(absRoot string) string {
	h := xxhash.New()
	_, _ = h.Write([]byte(absRoot))
	return fmt.Sprintf("local-%x", h.Sum64())
}

// Bootstrap writes a minimal config.json containing actorID if none exists
// yet, so a freshly-cloned repo can be watched without hand-authoring one.
func Bootstrap(root, actorID string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return forgeerrors.Config("resolve repo root", err).WithStack()
	}
	dir := filepath.Join(absRoot, ConfigDirRel)
	if err := config.PrepareDir(dir); err != nil {
		return forgeerrors.Config("prepare config dir", err).WithStack()
	}

	path := filepath.Join(dir, ConfigName+".json")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	conf := &Config{ActorID: actorID, RepoID: defaultRepoID(absRoot)}
	b, err := json.MarshalIndent(conf, "", "  ")
	if err != nil {
		return forgeerrors.Config("marshal default config", err).WithStack()
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return forgeerrors.Config("write default config", err).WithStack()
	}
	return nil
}
