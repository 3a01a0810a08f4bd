package backup

import (
	"sort"
)

// PrefixKind is a file class the engine can prefix.
type PrefixKind string

const (
	PrefixArchive   PrefixKind = "archive"
	PrefixManifest  PrefixKind = "manifest"
	PrefixSignature PrefixKind = "signature"
)

func validPrefixKind(k PrefixKind) bool {
	switch k {
	case PrefixArchive, PrefixManifest, PrefixSignature:
		return true
	}
	return false
}

// FilePrefixes holds the optional backup_file_prefixes of a group.
type FilePrefixes struct {
	prefixes map[PrefixKind]string
}

// NewFilePrefixes validates data, which may be nil.
func NewFilePrefixes(data interface{}) (*FilePrefixes, error) {
	fp := &FilePrefixes{prefixes: map[PrefixKind]string{}}
	if data == nil {
		return fp, nil
	}

	m, ok := data.(map[string]interface{})
	if !ok {
		return nil, &InvalidValueError{Field: "backup_file_prefixes", Value: data, Reason: "expected a mapping"}
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		kind := PrefixKind(k)
		if !validPrefixKind(kind) {
			return nil, &InvalidPrefixKindError{Kind: k}
		}
		value, ok := m[k].(string)
		if !ok {
			return nil, &InvalidValueError{Field: "backup_file_prefixes." + k, Value: m[k], Reason: "expected a string"}
		}
		fp.prefixes[kind] = value
	}
	return fp, nil
}

// Cmd returns --file-prefix-<kind> <value> pairs ordered by kind name.
func (fp *FilePrefixes) Cmd() []string {
	kinds := make([]string, 0, len(fp.prefixes))
	for k := range fp.prefixes {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	cmd := make([]string, 0, 2*len(kinds))
	for _, k := range kinds {
		cmd = append(cmd, "--file-prefix-"+k, fp.prefixes[PrefixKind(k)])
	}
	return cmd
}
