package common

import (
	"errors"

	"wiz-academy/domain"
)

func IsRecordNotFound(err error) bool {
	return errors.Is(err, domain.ErrRecordNotFound)
}

func IsDetailError(err error) (*domain.DetailedError, bool) {
	return domain.AsDetailedError(err)
}
