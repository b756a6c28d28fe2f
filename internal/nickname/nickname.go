// Package nickname produces display nicknames for profiles that are
// created without one.
package nickname

// Generator supplies a nickname when a signup omits the field. It is
// consulted at most once per creation; callers surface a failure as a
// validation error on the nickname field rather than retrying.
type Generator interface {
	Generate() (string, error)
}
