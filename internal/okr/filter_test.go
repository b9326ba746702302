package okr

import (
	"testing"

	"okr-tracker-api/internal/models"

	"github.com/stretchr/testify/require"
)

func ptr(n int64) *int64 { return &n }

func sampleRecords() models.Records {
	return models.Records{
		Employees: []models.Employee{
			{ID: 12, Name: "Ana", Role: models.RoleEmployee, Area: "Sales"},
			{ID: 13, Name: "Luis", Role: models.RoleEmployee, Area: "Ops"},
			{ID: 1, Name: "Boss", Role: models.RoleManager},
		},
		Objectives: []models.Objective{
			{ID: 1, Name: "Grow Revenue", Type: models.TypeOrganization, Year: 2025, Status: models.ObjectiveNew},
			{ID: 2, Name: "Close 10 deals", Type: models.TypeEmployee, EmployeeID: ptr(12), ParentID: ptr(1), Year: 2025},
			{ID: 3, Name: "Old goal", Type: models.TypeEmployee, EmployeeID: ptr(12), ParentID: ptr(1), Year: 2024},
			{ID: 4, Name: "Other person", Type: models.TypeEmployee, EmployeeID: ptr(13), ParentID: ptr(1), Year: 2025},
			{ID: 5, Name: "Orphan", Type: models.TypeEmployee, EmployeeID: ptr(12), ParentID: ptr(99), Year: 2025},
			{ID: 6, Name: "Cut Costs", Type: models.TypeOrganization, Year: 2024},
		},
		Tasks: []models.Task{
			{ID: "t1", ObjectiveID: 2, Status: models.TaskPending},
			{ID: "t2", ObjectiveID: 2, Status: models.TaskDoing},
			{ID: "t3", ObjectiveID: 2, Status: models.TaskDone},
			{ID: "t4", ObjectiveID: 4, Status: models.TaskDone},
		},
	}
}

func TestObjectivesFor_FiltersByOwnerYearAndType(t *testing.T) {
	records := sampleRecords()

	got := ObjectivesFor(records, "12", 2025, models.TypeEmployee)
	require.Len(t, got, 2)
	require.Equal(t, int64(2), got[0].ID)
	require.Equal(t, int64(5), got[1].ID)

	for _, o := range got {
		require.NotEqual(t, 2024, o.Year)
	}
}

func TestObjectivesFor_NormalizesEmployeeID(t *testing.T) {
	records := sampleRecords()
	for _, id := range []any{12, "12.0", " 12 ", int64(12), 12.0} {
		require.Len(t, ObjectivesFor(records, id, 2025, models.TypeEmployee), 2, "id %v", id)
	}
}

func TestObjectivesFor_EmptyInputs(t *testing.T) {
	require.Empty(t, ObjectivesFor(models.Records{}, 12, 2025, models.TypeEmployee))
	require.Empty(t, ObjectivesFor(sampleRecords(), "", 2025, models.TypeEmployee))
	require.Empty(t, ObjectivesFor(sampleRecords(), nil, 2025, models.TypeOrganization))
}

func TestCorporateObjectives_AnyYear(t *testing.T) {
	got := CorporateObjectives(sampleRecords())
	require.Len(t, got, 2)
	require.Equal(t, "Grow Revenue", got[0].Name)
	require.Equal(t, "Cut Costs", got[1].Name)
	require.Empty(t, CorporateObjectives(models.Records{}))
}

func TestTasksFor(t *testing.T) {
	records := sampleRecords()
	require.Len(t, TasksFor(records, "2.0"), 3)
	require.Empty(t, TasksFor(records, 3))
	require.Empty(t, TasksFor(records, ""))
}

func TestYearsFor_NewestFirst(t *testing.T) {
	require.Equal(t, []int{2025, 2024}, YearsFor(sampleRecords(), 12))
	require.Empty(t, YearsFor(sampleRecords(), 1))
}

func TestNextSequentialID(t *testing.T) {
	require.Equal(t, int64(1), NextSequentialID(nil))
	require.Equal(t, int64(1), NextSequentialID([]any{nil, "", "abc"}))
	require.Equal(t, int64(6), NextSequentialID([]any{3, 5, 2}))
	require.Equal(t, int64(6), NextSequentialID([]any{"3.0", " 5 ", int64(2)}))
}
