package workflow

import (
	"testing"

	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

const topAdminID = int64(1)

func managerRef(id int64) *int64 {
	return &id
}

func TestChainBuilder_Build(t *testing.T) {
	builder := NewChainBuilder(topAdminID)

	tests := []struct {
		name      string
		submitter *entity.User
		expected  []int64
	}{
		{
			name:      "employee with mid-level manager gets manager then admin",
			submitter: &entity.User{ID: 3, Role: entity.RoleEmployee, ManagerID: managerRef(2)},
			expected:  []int64{2, 1},
		},
		{
			name:      "employee reporting directly to the top admin gets admin only",
			submitter: &entity.User{ID: 5, Role: entity.RoleEmployee, ManagerID: managerRef(1)},
			expected:  []int64{1},
		},
		{
			name:      "employee without manager falls back to admin",
			submitter: &entity.User{ID: 6, Role: entity.RoleEmployee},
			expected:  []int64{1},
		},
		{
			name:      "manager reporting to the top admin gets admin only",
			submitter: &entity.User{ID: 2, Role: entity.RoleManager, ManagerID: managerRef(1)},
			expected:  []int64{1},
		},
		{
			name:      "admin with a manager keeps only the manager",
			submitter: &entity.User{ID: 7, Role: entity.RoleAdmin, ManagerID: managerRef(2)},
			expected:  []int64{2},
		},
		{
			name:      "top admin without manager gets empty chain",
			submitter: &entity.User{ID: 1, Role: entity.RoleAdmin},
			expected:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := builder.Build(tt.submitter)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestChainBuilder_BuildIsDeterministic(t *testing.T) {
	builder := NewChainBuilder(topAdminID)
	submitter := &entity.User{ID: 3, Role: entity.RoleEmployee, ManagerID: managerRef(2)}

	first := builder.Build(submitter)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, builder.Build(submitter))
	}
}

func TestDedupeOrdered_PreservesFirstOccurrenceOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    []int64
		expected []int64
	}{
		{"no duplicates", []int64{2, 1}, []int64{2, 1}},
		{"duplicate keeps first position", []int64{2, 1, 2}, []int64{2, 1}},
		{"all duplicates collapse", []int64{4, 4, 4}, []int64{4}},
		{"empty stays empty", []int64{}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := append([]int64{}, tt.input...)
			assert.Equal(t, tt.expected, dedupeOrdered(input))
		})
	}
}
