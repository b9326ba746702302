package okr

import (
	"math"

	"okr-tracker-api/internal/models"
)

// TaskWeight maps a task status to its contribution to completion. Unknown
// statuses weigh nothing.
func TaskWeight(status models.TaskStatus) float64 {
	switch status {
	case models.TaskDone:
		return 1.0
	case models.TaskDoing:
		return 0.5
	default:
		return 0.0
	}
}

// TaskCompletion returns the mean task weight. An objective without tasks has
// completion 0.
func TaskCompletion(tasks []models.Task) float64 {
	if len(tasks) == 0 {
		return 0.0
	}
	var sum float64
	for _, t := range tasks {
		sum += TaskWeight(t.Status)
	}
	return Clamp(sum / float64(len(tasks)))
}

// EmployeeCompletion returns the unweighted mean of TaskCompletion across
// objectives, using the tasks linked to each one. No objectives means 0.
func EmployeeCompletion(objectives []models.Objective, tasks []models.Task) float64 {
	if len(objectives) == 0 {
		return 0.0
	}
	var sum float64
	for _, o := range objectives {
		sum += TaskCompletion(tasksFor(tasks, o.ID))
	}
	return Clamp(sum / float64(len(objectives)))
}

// Clamp bounds a completion fraction to [0, 1]. NaN becomes 0.
func Clamp(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0.0
	case f > 1:
		return 1.0
	default:
		return f
	}
}

// Percent renders a completion fraction as a whole percentage, truncated.
func Percent(f float64) int {
	return int(math.Floor(Clamp(f)*100 + 1e-9))
}
