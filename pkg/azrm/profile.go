package azrm

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultProfileName is the profile used when none is configured or the
// configured one is unknown.
const DefaultProfileName = "latest"

//go:embed profiles.yaml
var builtinProfilesYAML []byte

// Static errors for err113 compliance.
var (
	ErrNoProfiles             = errors.New("profile table defines no profiles")
	ErrDefaultProfileNotFound = errors.New("default profile not defined")
	ErrDuplicateProfileEntry  = errors.New("profile entry defined twice")
)

type profileKey struct {
	provider     string
	resourceType string
}

func newProfileKey(provider, resourceType string) profileKey {
	return profileKey{
		provider:     strings.ToLower(strings.TrimSpace(provider)),
		resourceType: strings.Trim(strings.ToLower(strings.TrimSpace(resourceType)), "/"),
	}
}

// APIProfile maps (provider namespace, resource type) to an API version.
// It is immutable after load.
type APIProfile struct {
	name     string
	versions map[profileKey]string
	entries  []ProfileEntry
}

// ProfileEntry is one row of a profile, with the spelling used in the table.
type ProfileEntry struct {
	Provider     string `json:"provider"      yaml:"provider"`
	ResourceType string `json:"resource_type" yaml:"resource_type"`
	APIVersion   string `json:"api_version"   yaml:"api_version"`
}

// Name returns the profile name.
func (p *APIProfile) Name() string {
	return p.name
}

// Version returns the API version recorded for the pair.
func (p *APIProfile) Version(provider, resourceType string) (string, bool) {
	v, ok := p.versions[newProfileKey(provider, resourceType)]

	return v, ok
}

// Entries returns the rows of the profile sorted by provider and type.
func (p *APIProfile) Entries() []ProfileEntry {
	out := make([]ProfileEntry, len(p.entries))
	copy(out, p.entries)

	return out
}

type profileFile struct {
	Default  string                                  `yaml:"default"`
	Profiles map[string]map[string]map[string]string `yaml:"profiles"`
}

// ProfileRegistry is the static table of named API version profiles.
type ProfileRegistry struct {
	profiles    map[string]*APIProfile
	defaultName string
	logger      Logger
}

// LoadProfiles parses a profile table. Provider and resource type names
// are case-insensitive, so two spellings of one pair are rejected.
func LoadProfiles(data []byte) (*ProfileRegistry, error) {
	var file profileFile

	err := yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("parsing profile table: %w", err)
	}

	if len(file.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	defaultName := file.Default
	if defaultName == "" {
		defaultName = DefaultProfileName
	}

	registry := &ProfileRegistry{
		profiles:    make(map[string]*APIProfile, len(file.Profiles)),
		defaultName: defaultName,
		logger:      NopLogger{},
	}

	for name, providers := range file.Profiles {
		profile := &APIProfile{
			name:     name,
			versions: make(map[profileKey]string),
		}

		for provider, types := range providers {
			for resourceType, version := range types {
				key := newProfileKey(provider, resourceType)
				if _, dup := profile.versions[key]; dup {
					return nil, fmt.Errorf("%w: %s has %s/%s under differently cased names",
						ErrDuplicateProfileEntry, name, provider, resourceType)
				}

				profile.versions[key] = version
				profile.entries = append(profile.entries, ProfileEntry{
					Provider:     provider,
					ResourceType: resourceType,
					APIVersion:   version,
				})
			}
		}

		sort.Slice(profile.entries, func(i, j int) bool {
			a, b := profile.entries[i], profile.entries[j]
			if !strings.EqualFold(a.Provider, b.Provider) {
				return strings.ToLower(a.Provider) < strings.ToLower(b.Provider)
			}

			return strings.ToLower(a.ResourceType) < strings.ToLower(b.ResourceType)
		})

		registry.profiles[name] = profile
	}

	if _, ok := registry.profiles[defaultName]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrDefaultProfileNotFound, defaultName)
	}

	return registry, nil
}

var builtinProfiles = sync.OnceValues(func() (*ProfileRegistry, error) {
	return LoadProfiles(builtinProfilesYAML)
})

// BuiltinProfiles returns the registry compiled into the package. The
// table is parsed once per process.
func BuiltinProfiles() *ProfileRegistry {
	registry, err := builtinProfiles()
	if err != nil {
		panic(fmt.Sprintf("azrm: embedded profile table is invalid: %v", err))
	}

	return registry
}

// WithLogger returns a registry sharing the same profiles that reports
// fallbacks to logger.
func (r *ProfileRegistry) WithLogger(logger Logger) *ProfileRegistry {
	return &ProfileRegistry{
		profiles:    r.profiles,
		defaultName: r.defaultName,
		logger:      loggerOrNop(logger),
	}
}

// DefaultName returns the name of the default profile.
func (r *ProfileRegistry) DefaultName() string {
	return r.defaultName
}

// Names returns the profile names sorted.
func (r *ProfileRegistry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Lookup returns the named profile without fallback.
func (r *ProfileRegistry) Lookup(name string) (*APIProfile, bool) {
	p, ok := r.profiles[name]

	return p, ok
}

// Profile returns the named profile, or the default profile when the name
// is unknown.
func (r *ProfileRegistry) Profile(name string) *APIProfile {
	if p, ok := r.profiles[name]; ok {
		return p
	}

	r.logger.Debug("profile fallback", map[string]interface{}{
		"requested": name,
		"using":     r.defaultName,
	})

	return r.profiles[r.defaultName]
}

// ResolveVersion never fails. An unknown profile name resolves against the
// default profile, and a pair missing from the resolved profile takes the
// default profile's entry. When the default profile lacks the pair too the
// result is the empty string.
func (r *ProfileRegistry) ResolveVersion(profileName, provider, resourceType string) string {
	profile := r.Profile(profileName)
	if v, ok := profile.Version(provider, resourceType); ok {
		return v
	}

	v, ok := r.profiles[r.defaultName].Version(provider, resourceType)

	fields := map[string]interface{}{
		"profile":       profile.Name(),
		"provider":      provider,
		"resource_type": resourceType,
	}
	if !ok {
		r.logger.Warn("no api-version for resource type", fields)

		return ""
	}

	fields["using"] = r.defaultName
	r.logger.Debug("api-version fallback", fields)

	return v
}

// Active binds the registry to the profile selected for this process.
func (r *ProfileRegistry) Active(name string) *ActiveProfile {
	if name == "" {
		name = r.defaultName
	}

	return &ActiveProfile{registry: r, name: name}
}

// ActiveProfile resolves API versions against one selected profile.
type ActiveProfile struct {
	registry *ProfileRegistry
	name     string
}

// Name returns the requested profile name.
func (a *ActiveProfile) Name() string {
	return a.name
}

// APIVersion resolves the version for a provider/resource type pair.
func (a *ActiveProfile) APIVersion(provider, resourceType string) string {
	return a.registry.ResolveVersion(a.name, provider, resourceType)
}
