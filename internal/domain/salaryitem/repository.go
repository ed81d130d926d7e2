package salaryitem

import "context"

type SalaryItemRepository interface {
	GetByEmployee(ctx context.Context, employeeID string) ([]Item, error)
	GetPerformanceAdjustment(ctx context.Context, employeeID, yearMonth string) (*PerformanceAdjustment, error)

	// ReplaceForEmployee swaps the full item set atomically; used by
	// administrative batch edits.
	ReplaceForEmployee(ctx context.Context, employeeID string, items []Item) error
}
