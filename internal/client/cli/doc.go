// Package cli provides the interactive MedInvest terminal client.
//
// It wires configuration, the encrypted local store, the auth API, the
// biometric service and the navigation controller into a REPL whose commands
// depend on the active stack:
//
//   - Onboarding: next, skip
//   - Auth: login, biometric
//   - Main: status, ask, summarize, moderate, deal, biometric-off, logout
//
// A background watcher pings the backend and shows online/offline in the
// prompt. The REPL is started via App.Run(ctx), which blocks until the user
// exits.
package cli
