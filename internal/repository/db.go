package repository

import (
	"database/sql"
	"fmt"
	"slices"

	"github.com/realtyhub/backoffice/internal/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func sortByCreatedAt(items []domain.EmailNotification) {
	slices.SortStableFunc(items, func(a, b domain.EmailNotification) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}
