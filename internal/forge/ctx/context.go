// Package ctx holds the resolved, process-wide identity of a watched
// repository: its root, its config, and the actor/repo ids every emitted
// operation is stamped with.
package ctx

import (
	"path/filepath"

	"github.com/sjzar/forge/internal/forge/conf"
	fconfig "github.com/sjzar/forge/pkg/config"
)

// Context is the read-mostly identity a Manager wires into the watcher,
// the HTTP diagnostics surface, and the TUI alike.
type Context struct {
	Root    string
	ActorID string
	RepoID  string

	Profile      bool
	DisableRapid bool

	conf *conf.Config
	cm   *fconfig.Manager
}

// New resolves root to an absolute path and loads its config, bootstrapping
// a minimal one if none exists yet and actorID is non-empty.
func New(root, actorID string) (*Context, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	if actorID != "" {
		if err := conf.Bootstrap(absRoot, actorID); err != nil {
			return nil, err
		}
	}

	c, cm, err := conf.Load(absRoot)
	if err != nil {
		return nil, err
	}

	return &Context{
		Root:         absRoot,
		ActorID:      c.ActorID,
		RepoID:       c.RepoID,
		Profile:      c.Profile,
		DisableRapid: c.DisableRapid,
		conf:         c,
		cm:           cm,
	}, nil
}

// ConfigDir is the directory the repo's config.json lives under.
func (c *Context) ConfigDir() string {
	return filepath.Join(c.Root, conf.ConfigDirRel)
}
