package services

import (
	"context"

	"lunchlog/internal/database"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// TransactionService gives multi-table writes such as receipt capture plus
// visit recording a single commit point.
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute commits when fn returns nil. An error or panic from fn rolls back;
// a panic comes back as an error.
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) (err error) {
	log := ts.log.Function("Execute").TraceFromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			err = log.Error("panic during transaction", "panic", r)
		}
	}()

	return ts.db.SQLWithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, tx)
	})
}
