package backup

import (
	"github.com/systmms/dupcomp/internal/keyring"
)

// fakeSecrets resolves references from a fixed map.
type fakeSecrets struct {
	values map[keyring.Reference]string
	asked  []keyring.Reference
}

func (f *fakeSecrets) Resolve(ref keyring.Reference) (string, error) {
	f.asked = append(f.asked, ref)
	v, ok := f.values[ref]
	if !ok {
		return "", &keyring.SecretNotFoundError{Ref: ref}
	}
	return v, nil
}

func localGroupData() map[string]interface{} {
	return map[string]interface{}{
		"volume_size": 200,
		"encryption":  map[string]interface{}{"enabled": false},
		"backup_provider": map[string]interface{}{
			"url": "file://",
		},
		"sources": map[string]interface{}{
			"/var/www/html": map[string]interface{}{
				"backup_path":  "/var/www/html",
				"restore_path": "/root/restored/var/www/html",
			},
		},
	}
}
