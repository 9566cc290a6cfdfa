// Package securestore is the device-local secure key-value store of the
// MedInvest client.
//
// It stands in for platform-encrypted storage (Keychain / Keystore): every
// value is sealed with AES-GCM under a key derived from a device secret, and
// persisted in SQLite (modernc.org/sqlite) with a goose-managed schema.
//
// Get returns (nil, nil) for absent keys. Callers that treat storage failures
// as "absent" (the credential gate, the biometric service) do so themselves;
// the store reports every failure.
package securestore
