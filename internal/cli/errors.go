package cli

import (
	"errors"
	"fmt"
)

var errNotLoggedIn = errors.New("not logged in; run `seller login request --phone <phone>` then `seller login verify`")

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type ambiguousIDError struct {
	prefix  string
	matches []string
}

func (e ambiguousIDError) Error() string {
	return fmt.Sprintf("order id %q is ambiguous (%d matches); use more characters", e.prefix, len(e.matches))
}

type missingClaimError struct {
	claim string
}

func (e missingClaimError) Error() string {
	return fmt.Sprintf("session token has no %s claim; log in again", e.claim)
}
