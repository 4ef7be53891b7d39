package service

import "errors"

// Sentinel errors shared across the services. Handlers translate these into
// HTTP outcomes; anything else is a 500.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient permissions")

	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrTitleNotFound    = errors.New("title not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrCommentNotFound  = errors.New("comment not found")

	ErrNameInUse          = errors.New("username already in use")
	ErrEmailInUse         = errors.New("email already in use")
	ErrSlugInUse          = errors.New("slug already in use")
	ErrDuplicateReview    = errors.New("review for this title already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	ErrReservedUsername    = errors.New("username is reserved")
	ErrUnknownCategorySlug = errors.New("unknown category slug")
	ErrUnknownGenreSlug    = errors.New("unknown genre slug")
	ErrInvalidSlug         = errors.New("slug may only contain latin letters, digits, hyphens and underscores")
	ErrInvalidYear         = errors.New("year must not exceed the current year")
	ErrInvalidRole         = errors.New("unknown role")
)
