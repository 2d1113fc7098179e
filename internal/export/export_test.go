package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"lapak/internal/export"
)

func TestCustomerWorkbook(t *testing.T) {
	joined := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	rows := []export.CustomerRow{
		{
			ID:        "user-1",
			Username:  "budi",
			Email:     "budi@example.com",
			FirstName: "Budi",
			LastName:  "Santoso",
			Phone:     "+62811111111",
			Address:   "Jl. Kenanga No. 7, Jakarta",
			JoinedAt:  joined,
		},
		{
			ID:       "user-2",
			Username: "siti",
			Email:    "siti@example.com",
			JoinedAt: joined,
		},
	}

	data, err := export.CustomerWorkbook(rows)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Equal(t, []string{"Customers"}, sheets)

	cells, err := f.GetRows("Customers")
	require.NoError(t, err)
	require.Len(t, cells, 3)

	assert.Equal(t, []string{
		"ID", "Username", "Email", "First Name", "Last Name", "Phone", "Address", "Date Joined",
	}, cells[0])

	assert.Equal(t, []string{
		"user-1", "budi", "budi@example.com", "Budi", "Santoso",
		"+62811111111", "Jl. Kenanga No. 7, Jakarta", "2025-03-14 09:30:00",
	}, cells[1])

	// Sparse rows keep their column alignment
	assert.Equal(t, "user-2", cells[2][0])
	assert.Equal(t, "siti@example.com", cells[2][2])
}

func TestCustomerWorkbook_Empty(t *testing.T) {
	data, err := export.CustomerWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	cells, err := f.GetRows("Customers")
	require.NoError(t, err)
	require.Len(t, cells, 1, "only the header row")
}

func TestCustomerFilename(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 45, 0, time.UTC)
	assert.Equal(t, "customers_20250314_093045.xlsx", export.CustomerFilename(now))
}
