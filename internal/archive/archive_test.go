package archive

import (
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

func sampleLog(exerciseID string, rated bool, start time.Time) models.WorkoutLog {
	l := models.WorkoutLog{
		ID:        uuid.New(),
		WorkoutID: "wk-push",
		StartTime: start,
		Completed: true,
		Exercises: []models.ExerciseLog{
			{ExerciseID: exerciseID, Sets: []models.WorkoutSet{{Weight: 80, Reps: 5}}},
		},
	}
	if rated {
		l.Rating = &models.WorkoutRating{Overall: 4}
	}
	return l
}

// TestAppendAndLookup verifies that appended sessions are retrievable by id
// and ordered most recent first.
func TestAppendAndLookup(t *testing.T) {
	a := New(nil)
	now := time.Now()
	first := sampleLog("ex-bench", false, now.Add(-time.Hour))
	second := sampleLog("ex-bench", false, now)
	a.Append(first)
	a.Append(second)

	if a.Len() != 2 {
		t.Fatalf("Len = %d, want 2", a.Len())
	}
	logs := a.Logs()
	if logs[0].ID != second.ID {
		t.Error("most recent session not first")
	}
	if _, ok := a.Log(first.ID); !ok {
		t.Error("first session not found by id")
	}
	if _, ok := a.Log(uuid.New()); ok {
		t.Error("unknown id reported as found")
	}
}

// TestSessionsWithExercise verifies the per-exercise session count only
// includes sessions with at least one logged set for that exercise.
func TestSessionsWithExercise(t *testing.T) {
	a := New(nil)
	now := time.Now()
	a.Append(sampleLog("ex-bench", false, now))
	a.Append(sampleLog("ex-squat", false, now))

	empty := sampleLog("ex-bench", false, now)
	empty.Exercises[0].Sets = nil
	a.Append(empty)

	if got := a.SessionsWithExercise("ex-bench"); got != 1 {
		t.Errorf("SessionsWithExercise(ex-bench) = %d, want 1", got)
	}
	if got := a.SessionsWithExercise("ex-squat"); got != 1 {
		t.Errorf("SessionsWithExercise(ex-squat) = %d, want 1", got)
	}
}

// TestRecentRated verifies that only rated sessions are returned and the
// count is capped.
func TestRecentRated(t *testing.T) {
	a := New(nil)
	now := time.Now()
	for i := 0; i < 4; i++ {
		a.Append(sampleLog("ex-bench", i%2 == 0, now.Add(time.Duration(i)*time.Minute)))
	}
	got := a.RecentRated(1)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Rating == nil {
		t.Error("returned session has no rating")
	}
}

// TestPostHocEdits verifies the narrow edit surface on archived sessions:
// top-level, per-exercise, and per-set updates plus set add/remove.
func TestPostHocEdits(t *testing.T) {
	a := New(nil)
	l := sampleLog("ex-bench", false, time.Now())
	a.Append(l)

	note := "felt strong"
	if !a.UpdateLog(l.ID, LogUpdate{Note: &note}) {
		t.Fatal("UpdateLog returned false")
	}
	done := true
	if !a.UpdateLogExercise(l.ID, 0, ExerciseUpdate{Completed: &done}) {
		t.Fatal("UpdateLogExercise returned false")
	}
	w := 82.5
	if !a.UpdateLogSet(l.ID, 0, 0, SetUpdate{Weight: &w}) {
		t.Fatal("UpdateLogSet returned false")
	}
	if !a.AddLogSet(l.ID, 0, models.WorkoutSet{Weight: 85, Reps: 3}) {
		t.Fatal("AddLogSet returned false")
	}

	got, _ := a.Log(l.ID)
	if got.Note != "felt strong" {
		t.Errorf("note = %q", got.Note)
	}
	if !got.Exercises[0].Completed {
		t.Error("exercise not marked completed")
	}
	if got.Exercises[0].Sets[0].Weight != 82.5 {
		t.Errorf("set weight = %v, want 82.5", got.Exercises[0].Sets[0].Weight)
	}
	if len(got.Exercises[0].Sets) != 2 {
		t.Fatalf("sets = %d, want 2", len(got.Exercises[0].Sets))
	}

	if !a.RemoveLogSet(l.ID, 0, 1) {
		t.Fatal("RemoveLogSet returned false")
	}
	got, _ = a.Log(l.ID)
	if len(got.Exercises[0].Sets) != 1 {
		t.Errorf("sets after remove = %d, want 1", len(got.Exercises[0].Sets))
	}
}

// TestEditsInvalidReferences verifies that edits against unknown ids or
// out-of-range indexes are silent no-ops.
func TestEditsInvalidReferences(t *testing.T) {
	a := New(nil)
	l := sampleLog("ex-bench", false, time.Now())
	a.Append(l)

	note := "x"
	if a.UpdateLog(uuid.New(), LogUpdate{Note: &note}) {
		t.Error("UpdateLog accepted unknown id")
	}
	if a.UpdateLogExercise(l.ID, 5, ExerciseUpdate{Note: &note}) {
		t.Error("UpdateLogExercise accepted bad index")
	}
	if a.UpdateLogSet(l.ID, 0, 9, SetUpdate{Note: &note}) {
		t.Error("UpdateLogSet accepted bad set index")
	}
	if a.RemoveLogSet(l.ID, 0, 9) {
		t.Error("RemoveLogSet accepted bad set index")
	}

	got, _ := a.Log(l.ID)
	if got.Note != "" || got.Exercises[0].Note != "" {
		t.Error("no-op edit mutated state")
	}
}

// TestPersistCallback verifies the persist hook fires on append and on edits
// with a snapshot of the changed log.
func TestPersistCallback(t *testing.T) {
	var saved []models.WorkoutLog
	a := New(func(l models.WorkoutLog) { saved = append(saved, l) })

	l := sampleLog("ex-bench", false, time.Now())
	a.Append(l)
	note := "edited"
	a.UpdateLog(l.ID, LogUpdate{Note: &note})

	if len(saved) != 2 {
		t.Fatalf("persist calls = %d, want 2", len(saved))
	}
	if saved[1].Note != "edited" {
		t.Errorf("persisted note = %q, want %q", saved[1].Note, "edited")
	}
}

// TestLogsReturnsCopies verifies callers cannot mutate archive state through
// returned slices.
func TestLogsReturnsCopies(t *testing.T) {
	a := New(nil)
	l := sampleLog("ex-bench", false, time.Now())
	a.Append(l)

	logs := a.Logs()
	logs[0].Exercises[0].Sets[0].Weight = 999

	got, _ := a.Log(l.ID)
	if got.Exercises[0].Sets[0].Weight == 999 {
		t.Error("mutation through returned slice reached archive state")
	}
}
