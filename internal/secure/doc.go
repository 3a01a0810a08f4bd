// Package secure holds credentials (GPG passphrases, S3 keys, SCP
// passwords) encrypted in memory via memguard between the moment they are
// read from the configuration or the keyring and the moment they are
// exported to the backup engine.
//
// The binary calls memguard.Purge before exiting so every enclave key is wiped.
package secure
