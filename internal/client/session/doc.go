// Package session owns the client's authenticated state.
//
// Manager holds the single active session, mirrors it to the secure store
// and publishes changes to subscribers. Authenticator performs the login
// mutation that creates sessions, either from a manually typed credential or
// from one replayed after a biometric challenge.
package session
