package lms

import (
	"scorm_rte/internal/model"
)

// BuildCommit serializes the record into the commit body. The returned mark
// is the activity position covered by the payload; acknowledge it with
// Record.AckActivity once the LMS has stored the commit.
func BuildCommit(rec *model.Record) (*model.CommitPayload, int) {
	p := &model.CommitPayload{
		PageID:           rec.PageID,
		PageTitle:        rec.PageTitle,
		Location:         rec.Location,
		SuspendData:      rec.SuspendData,
		CompletionStatus: rec.CompletionStatus,
		SuccessStatus:    rec.SuccessStatus,
		ProgressMeasure:  rec.ProgressMeasure,
		ScoreMin:         rec.Score.Min,
		ScoreMax:         rec.Score.Max,
		ScoreScaled:      rec.Score.Scaled,
		ScoreRaw:         rec.Score.Raw,
		PrefAudio:        rec.Preferences.AudioLevel,
		PrefLang:         rec.Preferences.Language,
		PrefSpeed:        rec.Preferences.DeliverySpeed,
	}

	if rec.ExitSet {
		exit := rec.Exit
		p.Exit = &exit
	}
	if rec.SessionTime > 0 {
		p.SessionTime = rec.SessionTime
	}
	if len(rec.ActivityReport) > 0 {
		p.ActivityReport = append([]model.ActivityEntry(nil), rec.ActivityReport...)
	}

	for _, i := range rec.Interactions {
		p.Interactions = append(p.Interactions, model.CommitInteraction{
			ID:               i.ID,
			Type:             i.Type,
			Timestamp:        i.Timestamp,
			Weighting:        i.Weighting,
			LearnerResponse:  i.LearnerResponse,
			Result:           i.Result,
			Latency:          i.Latency,
			Description:      i.Description,
			Objectives:       append([]string(nil), i.Objectives...),
			CorrectResponses: append([]string(nil), i.CorrectResponses...),
		})
	}
	for _, c := range rec.Comments {
		p.Comments = append(p.Comments, model.CommentData{
			Comment:   c.Comment,
			Location:  c.Location,
			Timestamp: model.FlexString(c.Timestamp),
		})
	}
	for _, o := range rec.Objectives {
		p.Objectives = append(p.Objectives, model.CommitObjective{
			ID:               o.ID,
			SuccessStatus:    o.SuccessStatus,
			CompletionStatus: o.CompletionStatus,
			ProgressMeasure:  o.ProgressMeasure,
			Description:      o.Description,
			ScoreMin:         o.Score.Min,
			ScoreMax:         o.Score.Max,
			ScoreRaw:         o.Score.Raw,
			ScoreScaled:      o.Score.Scaled,
		})
	}

	return p, rec.ActivityMark()
}
