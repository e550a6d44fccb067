package cmi

import (
	"testing"

	"github.com/stretchr/testify/require"

	"scorm_rte/internal/model"
)

func get(t *testing.T, m *DataModel, path string) string {
	t.Helper()
	v, err := m.GetValue(path)
	require.NoError(t, err, path)
	return v
}

func TestCompletionLock(t *testing.T) {
	m := New(model.Version2004, Options{})

	eff, err := m.SetValue("cmi.completion_status", "completed")
	require.NoError(t, err)
	require.True(t, eff.Commit)

	eff, err = m.SetValue("cmi.completion_status", "incomplete")
	require.NoError(t, err)
	require.False(t, eff.Commit)
	require.Equal(t, "completed", get(t, m, "cmi.completion_status"))

	_, err = m.SetValue("cmi.success_status", "passed")
	require.NoError(t, err)
	_, err = m.SetValue("cmi.success_status", "failed")
	require.NoError(t, err)
	require.Equal(t, "passed", get(t, m, "cmi.success_status"))

	// both rejected writes are still in the activity report
	require.Len(t, m.Record().ActivityReport, 4)
}

func TestLessonStatusAlias(t *testing.T) {
	m := New(model.Version12, Options{})
	require.Equal(t, "incomplete", get(t, m, "cmi.core.lesson_status"))

	eff, err := m.SetValue("cmi.core.lesson_status", "passed")
	require.NoError(t, err)
	require.True(t, eff.Commit)
	require.True(t, eff.Passed)
	require.Equal(t, "passed", get(t, m, "cmi.core.lesson_status"))
	require.Equal(t, "passed", m.Record().SuccessStatus)

	_, err = m.SetValue("cmi.core.lesson_status", "failed")
	require.NoError(t, err)
	require.Equal(t, "passed", m.Record().SuccessStatus)

	_, err = m.SetValue("cmi.core.lesson_status", "completed")
	require.NoError(t, err)
	_, err = m.SetValue("cmi.core.lesson_status", "incomplete")
	require.NoError(t, err)
	require.Equal(t, "completed", m.Record().CompletionStatus)

	require.Equal(t, "completed", get(t, m, "cmi.completion_status"))
	require.Equal(t, "passed", get(t, m, "cmi.success_status"))

	report := m.Record().ActivityReport
	require.Equal(t, model.ActivityEntry{Property: "cmi.success_status", Value: "passed"}, report[0])
	require.Equal(t, model.ActivityEntry{Property: "cmi.core.lesson_status", Value: "passed"}, report[1])
}

func TestLessonStatusFailedAfterCompleted(t *testing.T) {
	m := New(model.Version12, Options{})

	_, err := m.SetValue("cmi.core.lesson_status", "completed")
	require.NoError(t, err)
	eff, err := m.SetValue("cmi.core.lesson_status", "failed")
	require.NoError(t, err)
	require.True(t, eff.Commit)
	require.False(t, eff.Passed)
	require.Equal(t, "completed", get(t, m, "cmi.core.lesson_status"))
	require.Equal(t, "unknown", m.Record().SuccessStatus)

	// 没有完成时 failed 照常写入
	m = New(model.Version12, Options{})
	_, err = m.SetValue("cmi.core.lesson_status", "failed")
	require.NoError(t, err)
	require.Equal(t, "failed", get(t, m, "cmi.core.lesson_status"))
	require.Equal(t, "failed", get(t, m, "cmi.success_status"))
}

func TestSetValueEffects(t *testing.T) {
	m := New(model.Version2004, Options{CommCheck: true, AutoExit: true})

	eff, err := m.SetValue("cmi.suspend_data", "|broken")
	require.NoError(t, err)
	require.True(t, eff.Invalid)
	require.True(t, eff.Commit)
	require.Equal(t, "|broken", get(t, m, "cmi.suspend_data"))

	eff, err = m.SetValue("cmi.completion_status", "completed")
	require.NoError(t, err)
	require.True(t, eff.AutoExit)
	require.False(t, eff.Passed)

	eff, err = m.SetValue("cmi.exit", "suspend")
	require.NoError(t, err)
	require.True(t, eff.Commit)
	require.True(t, m.Record().ExitSet)

	eff, err = m.SetValue("cmi.location", "page-3")
	require.NoError(t, err)
	require.Equal(t, Effects{}, eff)
}

func TestNumericCoercion(t *testing.T) {
	m := New(model.Version2004, Options{})

	_, err := m.SetValue("cmi.score.raw", "85.5")
	require.NoError(t, err)
	require.Equal(t, "85.5", get(t, m, "cmi.score.raw"))

	_, err = m.SetValue("cmi.score.raw", "lots")
	require.NoError(t, err)
	require.Equal(t, "85.5", get(t, m, "cmi.score.raw"))

	require.Equal(t, "", get(t, m, "cmi.score.scaled"))
	require.Equal(t, "", get(t, m, "cmi.progress_measure"))
}

func TestAccessRules(t *testing.T) {
	m := New(model.Version2004, Options{})

	_, err := m.GetValue("cmi.exit")
	require.ErrorIs(t, err, ErrWriteOnly)

	_, err = m.SetValue("cmi.learner_id", "x")
	require.ErrorIs(t, err, ErrReadOnly)

	_, err = m.SetValue("cmi._version", "2")
	require.ErrorIs(t, err, ErrKeyword)

	_, err = m.SetValue("cmi.interactions._count", "2")
	require.ErrorIs(t, err, ErrKeyword)

	_, err = m.SetValue("cmi.bogus", "x")
	require.ErrorIs(t, err, ErrUndefinedElement)

	require.Len(t, m.Record().ActivityReport, 4)
	require.Equal(t, "cmi.bogus", m.Record().ActivityReport[3].Property)
}

func TestCollections(t *testing.T) {
	m := New(model.Version2004, Options{})

	require.Equal(t, "0", get(t, m, "cmi.interactions._count"))
	require.Equal(t, "", get(t, m, "cmi.interactions.4.id"))

	_, err := m.SetValue("cmi.interactions.1.id", "q2")
	require.NoError(t, err)
	_, err = m.SetValue("cmi.interactions.1.correct_responses.0.pattern", "a")
	require.NoError(t, err)
	_, err = m.SetValue("cmi.interactions.1.objectives.1.id", "obj-2")
	require.NoError(t, err)
	_, err = m.SetValue("cmi.interactions.1.latency", "PT1M30S")
	require.NoError(t, err)

	require.Equal(t, "2", get(t, m, "cmi.interactions._count"))
	require.Equal(t, "", get(t, m, "cmi.interactions.0.id"))
	require.Equal(t, "q2", get(t, m, "cmi.interactions.1.id"))
	require.Equal(t, "a", get(t, m, "cmi.interactions.1.correct_responses.0.pattern"))
	require.Equal(t, "1", get(t, m, "cmi.interactions.1.correct_responses._count"))
	require.Equal(t, "2", get(t, m, "cmi.interactions.1.objectives._count"))
	require.Equal(t, "obj-2", get(t, m, "cmi.interactions.1.objectives.1.id"))
	require.Equal(t, "PT0H1M30S", get(t, m, "cmi.interactions.1.latency"))
	require.Equal(t, float64(90), m.Record().Interactions[1].Latency)

	_, err = m.SetValue("cmi.objectives.0.score.scaled", "0.8")
	require.NoError(t, err)
	require.Equal(t, "0.8", get(t, m, "cmi.objectives.0.score.scaled"))

	_, err = m.SetValue("cmi.comments_from_learner.0.comment", "nice")
	require.NoError(t, err)
	require.Equal(t, "nice", get(t, m, "cmi.comments_from_learner.0.comment"))

	_, err = m.SetValue("cmi.comments_from_lms.0.comment", "x")
	require.ErrorIs(t, err, ErrReadOnly)
}

func TestSessionAndTotalTime(t *testing.T) {
	m := New(model.Version12, Options{})
	m.Record().TotalTime = 3600

	_, err := m.SetValue("cmi.core.session_time", "00:30:00")
	require.NoError(t, err)
	require.Equal(t, float64(1800), m.Record().SessionTime)
	require.Equal(t, "0001:30:00", get(t, m, "cmi.core.total_time"))

	report := m.Record().ActivityReport
	require.Equal(t, model.ActivityEntry{Property: "cmi.session_time", Value: "1800"}, report[0])
	require.Equal(t, model.ActivityEntry{Property: "cmi.core.session_time", Value: "00:30:00"}, report[1])

	m2004 := New(model.Version2004, Options{})
	_, err = m2004.SetValue("cmi.session_time", "PT1H30M0S")
	require.NoError(t, err)
	require.Equal(t, "PT1H30M0S", get(t, m2004, "cmi.total_time"))
}

func TestVersion12SingleComment(t *testing.T) {
	m := New(model.Version12, Options{})
	_, err := m.SetValue("cmi.comments", "first")
	require.NoError(t, err)
	_, err = m.SetValue("cmi.comments", "second")
	require.NoError(t, err)
	require.Equal(t, "second", get(t, m, "cmi.comments"))
	require.Len(t, m.Record().Comments, 1)

	require.Equal(t, "3.4", get(t, m, "cmi._version"))
}

func TestInitFrom(t *testing.T) {
	location := "p2"
	status := "completed"
	total := model.FlexString("0001:00:00")
	m := New(model.Version12, Options{})
	m.InitFrom(&model.InitPayload{
		Location:         &location,
		CompletionStatus: &status,
		TotalTime:        &total,
		ScoreRaw:         &model.NullFloat{Float64: 70, Valid: true},
		Interactions: []model.InitInteraction{
			{ID: "q1", Latency: "00:00:20", CorrectResponses: []string{"a"}},
		},
		LMSComments: []model.CommentData{{Comment: "from instructor"}},
	})

	require.Equal(t, "p2", get(t, m, "cmi.core.lesson_location"))
	require.Equal(t, "completed", get(t, m, "cmi.core.lesson_status"))
	require.Equal(t, "0001:00:00", get(t, m, "cmi.core.total_time"))
	require.Equal(t, "70", get(t, m, "cmi.core.score.raw"))
	require.Equal(t, float64(20), m.Record().Interactions[0].Latency)
	require.Equal(t, "from instructor", get(t, m, "cmi.comments_from_lms"))
	require.Equal(t, model.EntryAbInitio, get(t, m, "cmi.core.entry"))
}
