package services

import (
	"errors"

	apierrors "github.com/yukikurage/worker-tasks-graphql/internal/errors"
)

var (
	ErrUserNotFound  = apierrors.NewAPIError(apierrors.ErrCodeNotFound, "user not found")
	ErrTaskNotFound  = apierrors.NewAPIError(apierrors.ErrCodeNotFound, "task not found")
	ErrNameRequired  = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "name is required")
	ErrNameEmpty     = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "name cannot be empty")
	ErrTitleRequired = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "title is required")
	ErrTitleEmpty    = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "title cannot be empty")
)

// IsNotFound reports whether err is one of the not-found errors above.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrTaskNotFound)
}
