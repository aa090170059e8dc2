// Package v1 provides the newsroom business logic for API version 1:
// credential verification, session issuance, access control and the public
// article queries.
//
// Error Handling:
// This package defines sentinel errors for every failure class the web layer
// must distinguish. They are wrapped with context using fmt.Errorf("%w") and
// matched with errors.Is:
//
//	switch {
//	case errors.Is(err, logicv1.ErrInvalidCredentials), errors.Is(err, logicv1.ErrUnauthorized):
//	    c.JSON(http.StatusUnauthorized, ...)
//	case errors.Is(err, logicv1.ErrForbidden):
//	    c.JSON(http.StatusForbidden, ...)
//	}
//
// Messages returned to clients are generic; the wrapped detail is for logs only.
package v1

import "errors"

var (
	// ErrInvalidCredentials covers unknown user, inactive user and wrong password alike.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized indicates a missing, unknown or expired session.
	// Expired and unknown sessions are deliberately not distinguished.
	// HTTP Status: 401 Unauthorized
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates a valid session whose role may not invoke the operation.
	// HTTP Status: 403 Forbidden
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested resource is absent. Only surfaced
	// after authorization has succeeded.
	// HTTP Status: 404 Not Found
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest indicates malformed paging or filter parameters.
	// HTTP Status: 400 Bad Request
	ErrInvalidRequest = errors.New("invalid request")
)
