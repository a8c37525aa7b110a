// Package remote holds the plumbing shared by object-store backends:
// a fetch cache that keeps downloaded resources alive, a spooling output
// stream that uploads on Close, and a rate-limited reader for uploads.
package remote
