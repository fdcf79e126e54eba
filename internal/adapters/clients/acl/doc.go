// Package acl keeps upstream payloads out of the domain. Adapters here
// decode the wire format, drop what they cannot translate and turn every
// upstream failure into a domain error.
//
// A 404 becomes [domain.ErrNotFound], 401 and 403 become
// [domain.ErrForbidden], 4xx validation statuses become
// [domain.ErrValidation] and anything else, an open circuit included,
// becomes [domain.ErrUnavailable].
package acl
