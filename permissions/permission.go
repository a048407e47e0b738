package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Roles a route may list. They match users.level.
var knownRoles = []string{"admin", "user"}

// Permission lists the roles allowed on one chi route pattern. Skip marks a route
// that is open even to anonymous callers.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Open reports whether the route needs no role at all.
func (p Permission) Open() bool {
	return p.Skip || len(p.Permissions) == 0
}

func (p Permission) Allows(role string) bool {
	return p.Open() || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	once  sync.Once
	index map[string]Permission
}

// key ignores a trailing slash: chi reports "/v1/rooms" for POST /v1/rooms even
// though the route was declared as "/" inside the "/rooms" group.
func key(path, method string) string {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return strings.ToUpper(method) + " " + path
}

// FindPermissions looks up a route by its chi pattern. Unlisted routes come back open.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	r.once.Do(r.buildIndex)

	return r.index[key(path, method)]
}

func (r *PermissionData) buildIndex() {
	r.index = make(map[string]Permission, len(r.Endpoints))
	for _, endpoint := range r.Endpoints {
		r.index[key(endpoint.Path, endpoint.Method)] = endpoint
	}
}

// Parse decodes and checks a permission table: every route names a method, a
// versioned path and only known roles, and no route appears twice.
func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("decode permissions: %w", err)
	}

	seen := map[string]bool{}

	for _, endpoint := range permissions.Endpoints {
		k := key(endpoint.Path, endpoint.Method)

		switch {
		case endpoint.Method == "":
			return nil, fmt.Errorf("permission for %q has no method", endpoint.Path)
		case !strings.HasPrefix(endpoint.Path, "/v1/"):
			return nil, fmt.Errorf("permission path %q is outside /v1", endpoint.Path)
		case seen[k]:
			return nil, fmt.Errorf("duplicate permission for %s", k)
		}

		for _, role := range endpoint.Permissions {
			if !slices.Contains(knownRoles, role) {
				return nil, fmt.Errorf("unknown role %q on %s", role, k)
			}
		}

		seen[k] = true
	}

	permissions.once.Do(permissions.buildIndex)

	return &permissions, nil
}

// Get loads the embedded table. A broken table stops the service from starting.
func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load embedded permissions")
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Loaded embedded permissions")

	return permissions
}
