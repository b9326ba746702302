package service

import (
	"context"
	"testing"

	"okr-tracker-api/internal/auth"
	"okr-tracker-api/internal/models"
	"okr-tracker-api/internal/store"
	"okr-tracker-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestSeed_OnlyWhenEmpty(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	st := store.NewGormStore(db)
	ctx := context.Background()

	wrote, err := Seed(ctx, st, 2025)
	require.NoError(t, err)
	require.True(t, wrote)

	records, err := st.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, records.Employees, 2)
	require.Len(t, records.Areas, 1)
	require.Len(t, records.Objectives, 1)
	require.Equal(t, models.TypeOrganization, records.Objectives[0].Type)

	require.NotNil(t, auth.CheckCredentials(records.Employees, SeedManagerEmail, SeedManagerPassword))
	emp := auth.CheckCredentials(records.Employees, SeedEmployeeEmail, SeedEmployeePassword)
	require.NotNil(t, emp)
	require.Equal(t, models.RoleEmployee, emp.Role)

	wrote, err = Seed(ctx, st, 2025)
	require.NoError(t, err)
	require.False(t, wrote)

	records, err = st.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, records.Employees, 2)
}
