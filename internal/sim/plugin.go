package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is the engine version plugins declare compatibility against.
const Version = "0.3.0"

// PluginInfo is metadata for a content plugin.
type PluginInfo struct {
	// Name is a display name.
	Name string

	// ID uniquely differentiates this plugin from others.
	ID string

	// PluginVersion is the plugin's own version, MAJOR.MINOR.PATCH.
	PluginVersion string

	// RequiredVersion constrains the engine version the plugin loads
	// against, e.g. ">=0.3.0". Empty means any.
	RequiredVersion string
}

// Plugin is the content boundary: Setup receives the live simulation and
// registers components, resources, systems, and life-event types through the
// standard registries.
type Plugin struct {
	Info  PluginInfo
	Setup func(*Simulation) error
}

// PluginSetupError is fatal at load time: a plugin that cannot be set up
// aborts simulation construction.
type PluginSetupError struct {
	Plugin string
	Reason string
}

func (e *PluginSetupError) Error() string {
	return fmt.Sprintf("plugin %q setup failed: %s", e.Plugin, e.Reason)
}

// checkVersion validates a requirement such as ">=0.3.0" against the engine
// Version.
func checkVersion(requirement string) error {
	if requirement == "" {
		return nil
	}

	ops := []string{">=", "<=", "==", ">", "<"}
	var op, want string
	for _, o := range ops {
		if strings.HasPrefix(requirement, o) {
			op, want = o, requirement[len(o):]
			break
		}
	}
	if op == "" {
		return fmt.Errorf("malformed version requirement %q", requirement)
	}

	cmp, err := compareVersions(Version, want)
	if err != nil {
		return err
	}

	ok := false
	switch op {
	case ">=":
		ok = cmp >= 0
	case "<=":
		ok = cmp <= 0
	case "==":
		ok = cmp == 0
	case ">":
		ok = cmp > 0
	case "<":
		ok = cmp < 0
	}
	if !ok {
		return fmt.Errorf("engine version %s does not satisfy %s", Version, requirement)
	}
	return nil
}

func compareVersions(a, b string) (int, error) {
	pa, err := parseVersion(a)
	if err != nil {
		return 0, err
	}
	pb, err := parseVersion(b)
	if err != nil {
		return 0, err
	}
	for i := 0; i < 3; i++ {
		if pa[i] != pb[i] {
			if pa[i] < pb[i] {
				return -1, nil
			}
			return 1, nil
		}
	}
	return 0, nil
}

func parseVersion(v string) ([3]int, error) {
	var out [3]int
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return out, fmt.Errorf("malformed version %q", v)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return out, fmt.Errorf("malformed version %q", v)
		}
		out[i] = n
	}
	return out, nil
}
