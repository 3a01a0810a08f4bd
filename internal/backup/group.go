package backup

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

var mandatoryGroupFields = []string{"encryption", "backup_provider", "sources", "volume_size"}

// Group is a named set of sources sharing encryption, provider, volume size
// and file prefixes.
type Group struct {
	name       string
	encryption *Encryption
	provider   Provider
	prefixes   *FilePrefixes
	sources    []*Source
	volumeSize int
}

// NewGroup validates and builds a group. Parts are built in a fixed order
// (encryption, provider, prefixes, sources, volume size) and the first
// failure is returned.
func NewGroup(name string, data map[string]interface{}, secrets SecretResolver) (*Group, error) {
	scope := fmt.Sprintf("group %q", name)
	for _, field := range mandatoryGroupFields {
		if _, ok := data[field]; !ok {
			return nil, &MissingFieldError{Scope: scope, Field: field}
		}
	}

	g := &Group{name: name}

	encData, ok := data["encryption"].(map[string]interface{})
	if !ok {
		return nil, &InvalidValueError{Field: "encryption", Value: data["encryption"], Reason: "expected a mapping"}
	}
	encryption, err := NewEncryption(encData, secrets)
	if err != nil {
		return nil, err
	}
	g.encryption = encryption

	providerData, ok := data["backup_provider"].(map[string]interface{})
	if !ok {
		return nil, &InvalidValueError{Field: "backup_provider", Value: data["backup_provider"], Reason: "expected a mapping"}
	}
	provider, err := NewProvider(providerData, secrets)
	if err != nil {
		return nil, err
	}
	g.provider = provider

	prefixes, err := NewFilePrefixes(data["backup_file_prefixes"])
	if err != nil {
		return nil, err
	}
	g.prefixes = prefixes

	if err := g.setupSources(data["sources"]); err != nil {
		return nil, err
	}

	size, err := volumeSize(data["volume_size"])
	if err != nil {
		return nil, err
	}
	g.volumeSize = size

	return g, nil
}

func (g *Group) setupSources(raw interface{}) error {
	sourcesData, ok := raw.(map[string]interface{})
	if !ok {
		return &InvalidValueError{Field: "sources", Value: raw, Reason: "expected a mapping of source path to destinations"}
	}

	paths := make([]string, 0, len(sourcesData))
	for p := range sourcesData {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	g.sources = make([]*Source, 0, len(paths))
	for _, p := range paths {
		sourceData, ok := sourcesData[p].(map[string]interface{})
		if !ok {
			return &InvalidValueError{Field: fmt.Sprintf("sources[%q]", p), Value: sourcesData[p], Reason: "expected a mapping with backup_path and restore_path"}
		}
		source, err := NewSource(p, sourceData, g.provider)
		if err != nil {
			return err
		}
		g.sources = append(g.sources, source)
	}
	return nil
}

// volumeSize accepts the integer encodings produced by YAML and JSON
// decoders.
func volumeSize(raw interface{}) (int, error) {
	var n int64
	switch v := raw.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	case uint64:
		if v > math.MaxInt32 {
			return 0, &InvalidValueError{Field: "volume_size", Value: raw, Reason: "too large"}
		}
		n = int64(v)
	case float64:
		if v != math.Trunc(v) {
			return 0, &InvalidValueError{Field: "volume_size", Value: raw, Reason: "expected an integer"}
		}
		n = int64(v)
	default:
		return 0, &InvalidValueError{Field: "volume_size", Value: raw, Reason: "expected an integer"}
	}
	if n <= 0 || n > math.MaxInt32 {
		return 0, &InvalidValueError{Field: "volume_size", Value: raw, Reason: "must be a positive number of megabytes"}
	}
	return int(n), nil
}

func (g *Group) Name() string                { return g.name }
func (g *Group) VolumeSize() int             { return g.volumeSize }
func (g *Group) Encryption() *Encryption     { return g.encryption }
func (g *Group) Provider() Provider          { return g.provider }
func (g *Group) FilePrefixes() *FilePrefixes { return g.prefixes }

// Sources returns the sources ordered by source path.
func (g *Group) Sources() []*Source {
	out := make([]*Source, len(g.sources))
	copy(out, g.sources)
	return out
}

// Arguments returns one engine argument vector per source, in source path
// order. Each vector is: encryption flags, --volsize N, file prefix flags,
// then the source's positional arguments.
func (g *Group) Arguments(mode Mode) ([][]string, error) {
	all := make([][]string, 0, len(g.sources))
	for _, source := range g.sources {
		positional, err := source.Cmd(mode)
		if err != nil {
			return nil, err
		}

		args := make([]string, 0, 8)
		args = append(args, g.encryption.Cmd()...)
		args = append(args, "--volsize", strconv.Itoa(g.volumeSize))
		args = append(args, g.prefixes.Cmd()...)
		args = append(args, positional...)
		all = append(all, args)
	}
	return all, nil
}

// Environment merges the provider credentials with the encryption
// passphrase. Encryption entries are applied last and win on collision.
func (g *Group) Environment() (map[string]string, error) {
	env := map[string]string{}

	providerEnv, err := g.provider.Env()
	if err != nil {
		return nil, err
	}
	for k, v := range providerEnv {
		env[k] = v
	}

	encryptionEnv, err := g.encryption.Env()
	if err != nil {
		return nil, err
	}
	for k, v := range encryptionEnv {
		env[k] = v
	}
	return env, nil
}
