package lms

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"scorm_rte/internal/cmi"
	"scorm_rte/internal/model"
)

func TestInteractionRoundTrip(t *testing.T) {
	for _, v := range []model.Version{model.Version12, model.Version2004} {
		m := cmi.New(v, cmi.Options{})
		_, err := m.SetValue("cmi.interactions.0.id", "q1")
		require.NoError(t, err)
		_, err = m.SetValue("cmi.interactions.0.correct_responses.0", "a")
		require.NoError(t, err)

		payload, _ := BuildCommit(m.Record())
		data, err := json.Marshal(payload)
		require.NoError(t, err)

		var init model.InitPayload
		require.NoError(t, json.Unmarshal(data, &init))

		restored := cmi.New(v, cmi.Options{})
		restored.InitFrom(&init)
		inter := restored.Record().Interactions
		require.Len(t, inter, 1)
		require.Equal(t, "q1", inter[0].ID)
		require.Equal(t, []string{"a"}, inter[0].CorrectResponses)
	}
}

func TestBuildCommitOptionalKeys(t *testing.T) {
	rec := model.NewRecord(model.Version12)
	rec.Exit = "suspend"
	rec.ExitSet = true
	rec.SessionTime = 42
	rec.Log("cmi.location", "3")
	rec.InteractionAt(0).ID = "q1"
	rec.ObjectiveAt(0).Score.Raw = model.NewNullFloat(5)
	rec.CommentAt(0).Comment = "c"

	payload, mark := BuildCommit(rec)
	require.Equal(t, 1, mark)

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, "suspend", got["exit"])
	require.Equal(t, float64(42), got["session_time"])
	require.Len(t, got["activity_report"], 1)

	inter := got["interactions"].([]any)[0].(map[string]any)
	require.NotContains(t, inter, "objectives")
	require.NotContains(t, inter, "correct_responses")
	require.Equal(t, "", inter["weighting"])

	obj := got["objectives"].([]any)[0].(map[string]any)
	require.Equal(t, float64(5), obj["score_raw"])
	require.Len(t, got["comments"], 1)

	// the payload does not alias the live record
	rec.Log("cmi.location", "4")
	require.Len(t, payload.ActivityReport, 1)
}
