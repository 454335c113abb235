package target

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
)

var (
	ErrUnknownTarget = errors.New("unknown target")
	ErrUnknownHost   = errors.New("unknown host platform")
	ErrUnavailable   = errors.New("target not available on this host")
)

// HostRequest selects the host as the target.
const HostRequest = "host"

// Host identifies the machine the tool runs on, in GOOS/GOARCH terms.
type Host struct {
	OS   string
	Arch string
}

// CurrentHost reads the running platform.
func CurrentHost() Host {
	return Host{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// Target maps the host to its native target.
func (h Host) Target() (Target, error) {
	switch h.Arch {
	case "amd64", "arm64":
	default:
		return 0, fmt.Errorf("%w: %s/%s", ErrUnknownHost, h.OS, h.Arch)
	}
	switch h.OS {
	case "darwin":
		return OSXX8664, nil
	case "linux":
		return LinuxX8664, nil
	case "windows":
		return MingwX8664, nil
	}
	return 0, fmt.Errorf("%w: %s/%s", ErrUnknownHost, h.OS, h.Arch)
}

// enabledOn lists the targets a host can build for. The host itself comes
// first.
func enabledOn(host Target) []Target {
	switch host {
	case LinuxX8664:
		return []Target{LinuxX8664, LinuxArm32, AndroidArm32, AndroidArm64}
	case MingwX8664:
		return []Target{MingwX8664}
	case OSXX8664:
		return []Target{OSXX8664, AndroidArm32, AndroidArm64, IPhoneArm64, IPhoneSimX8664, LinuxArm32}
	default:
		return nil
	}
}

// aliases maps every accepted spelling to a target: canonical names,
// suffixes and a couple of nicknames.
func aliases() map[string]Target {
	m := make(map[string]Target, 2*int(targetCount)+2)
	for _, t := range All() {
		m[t.Name()] = t
		m[t.Suffix()] = t
	}
	m["macbook"] = OSXX8664
	m["iphone"] = IPhoneArm64
	return m
}

// Lookup resolves a target name or alias.
func Lookup(name string) (Target, error) {
	t, ok := aliases()[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %s (run `metair targets` to list them)", ErrUnknownTarget, name)
	}
	return t, nil
}

// Config is the resolved target configuration of one process.
type Config struct {
	Target  Target
	Host    Target
	Enabled []Target
}

// Resolve builds the configuration for request on host. An empty request or
// "host" selects the host target.
func Resolve(request string, host Host) (Config, error) {
	ht, err := host.Target()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{Target: ht, Host: ht, Enabled: enabledOn(ht)}
	if request == "" || request == HostRequest {
		return cfg, nil
	}
	t, err := Lookup(request)
	if err != nil {
		return Config{}, err
	}
	cfg.Target = t
	return cfg, nil
}

// IsEnabled reports whether t can be built on the configured host.
func (c Config) IsEnabled(t Target) bool {
	return slices.Contains(c.Enabled, t)
}

// Validate fails when the selected target cannot be built on this host.
func (c Config) Validate() error {
	if !c.IsEnabled(c.Target) {
		return fmt.Errorf("%w: %s on %s", ErrUnavailable, c.Target.Name(), c.Host.Name())
	}
	return nil
}

// HostTargetSuffix is the host suffix, or host-target for cross builds.
func (c Config) HostTargetSuffix() string {
	if c.Target == c.Host {
		return c.Host.Suffix()
	}
	return c.Host.Suffix() + "-" + c.Target.Suffix()
}

// Entry is one row of the target listing.
type Entry struct {
	Alias   string
	Target  Target
	Default bool
}

// List returns every alias of an enabled target, sorted by alias.
func (c Config) List() []Entry {
	var out []Entry
	for alias, t := range aliases() {
		if !c.IsEnabled(t) {
			continue
		}
		out = append(out, Entry{Alias: alias, Target: t, Default: t == c.Target})
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Alias, b.Alias) })
	return out
}
