// Package repository provides the data access layer over gorm.
package repository

import (
	"errors"

	"yatube/internal/models"

	"gorm.io/gorm"
)

// newestFirst is the ordering every post listing uses. id breaks ties
// between posts created within the same clock tick.
const newestFirst = "posts.created_at DESC, posts.id DESC"

// mapError turns gorm's not-found into an AppError naming the resource.
func mapError(err error, resource string, id interface{}) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}
