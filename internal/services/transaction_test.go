package services

import (
	"context"
	"errors"
	"testing"

	"lunchlog/internal/database"
	. "lunchlog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTransactionService_Execute_Success(t *testing.T) {
	db := setupTestDB(t)
	service := NewTransactionService(database.DB{SQL: db})

	err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
		return tx.Create(&Cuisine{Name: "Thai"}).Error
	})

	require.NoError(t, err)

	var count int64
	db.Model(&Cuisine{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestTransactionService_Execute_RollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	service := NewTransactionService(database.DB{SQL: db})

	expectedError := errors.New("test error")
	err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
		if err := tx.Create(&Cuisine{Name: "Thai"}).Error; err != nil {
			return err
		}
		return expectedError
	})

	assert.Equal(t, expectedError, err)

	var count int64
	db.Model(&Cuisine{}).Count(&count)
	assert.Zero(t, count)
}

func TestTransactionService_Execute_PanicRecovery(t *testing.T) {
	db := setupTestDB(t)
	service := NewTransactionService(database.DB{SQL: db})

	err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
		tx.Create(&Cuisine{Name: "Thai"})
		panic("test panic")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic during transaction")

	var count int64
	db.Model(&Cuisine{}).Count(&count)
	assert.Zero(t, count)
}
