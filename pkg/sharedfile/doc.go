// Package sharedfile provides cursors that allow many independent readers to
// share a single open file. Each cursor tracks its own position and performs
// offset-addressed reads against the underlying file, so cursors never disturb
// one another and require no coordination. Files may either be borrowed (in
// which case the caller manages their lifetime) or shared (in which case they
// are reference counted and closed when the last cursor referencing them is
// closed).
package sharedfile
