package cmi

import (
	"scorm_rte/internal/model"
)

// InitFrom seeds the record from the init response. Keys missing from the
// payload keep their defaults; collections are appended in payload order.
func (m *DataModel) InitFrom(p *model.InitPayload) {
	if p == nil {
		return
	}
	rec := m.rec

	copyString(&rec.LearnerID, p.LearnerID)
	copyString(&rec.LearnerName, p.LearnerName)
	copyString(&rec.Location, p.Location)
	copyString(&rec.LaunchData, p.LaunchData)
	copyString(&rec.SuspendData, p.SuspendData)
	copyString(&rec.Entry, p.Entry)
	copyString(&rec.Credit, p.Credit)
	copyString(&rec.Mode, p.Mode)
	copyString(&rec.TimeLimitAction, p.TimeLimitAction)
	copyString(&rec.CompletionStatus, p.CompletionStatus)
	copyString(&rec.SuccessStatus, p.SuccessStatus)
	copyString(&rec.Preferences.Language, p.PrefLang)
	if p.MaxTimeAllowed != nil {
		rec.MaxTimeAllowed = string(*p.MaxTimeAllowed)
	}
	if p.TotalTime != nil {
		rec.TotalTime = m.timeValue(*p.TotalTime)
	}

	copyNumber(&rec.CompletionThreshold, p.CompletionThreshold)
	copyNumber(&rec.ProgressMeasure, p.ProgressMeasure)
	copyNumber(&rec.ScaledPassingScore, p.ScaledPassingScore)
	copyNumber(&rec.Score.Min, p.ScoreMin)
	copyNumber(&rec.Score.Max, p.ScoreMax)
	copyNumber(&rec.Score.Scaled, p.ScoreScaled)
	copyNumber(&rec.Score.Raw, p.ScoreRaw)
	copyFloat(&rec.Preferences.AudioLevel, p.PrefAudio)
	copyFloat(&rec.Preferences.DeliverySpeed, p.PrefSpeed)
	copyFloat(&rec.Preferences.AudioCaptioning, p.PrefCaption)

	for _, in := range p.Interactions {
		rec.Interactions = append(rec.Interactions, model.Interaction{
			ID:               in.ID,
			Type:             in.Type,
			Timestamp:        string(in.Timestamp),
			Weighting:        in.Weighting,
			LearnerResponse:  in.LearnerResponse,
			Result:           in.Result,
			Latency:          m.timeValue(in.Latency),
			Description:      in.Description,
			Objectives:       append([]string(nil), in.Objectives...),
			CorrectResponses: append([]string(nil), in.CorrectResponses...),
		})
	}
	for _, c := range p.Comments {
		rec.Comments = append(rec.Comments, commentFrom(c))
	}
	for _, c := range p.LMSComments {
		rec.LMSComments = append(rec.LMSComments, commentFrom(c))
	}
	for _, o := range p.Objectives {
		rec.Objectives = append(rec.Objectives, model.Objective{
			ID:               o.ID,
			SuccessStatus:    o.SuccessStatus,
			CompletionStatus: o.CompletionStatus,
			ProgressMeasure:  o.ProgressMeasure,
			Description:      o.Description,
			Score: model.Score{
				Min:    o.ScoreMin,
				Max:    o.ScoreMax,
				Raw:    o.ScoreRaw,
				Scaled: o.ScoreScaled,
			},
		})
	}
}

// timeValue accepts plain seconds or a value in the version time grammar.
func (m *DataModel) timeValue(v model.FlexString) float64 {
	if v == "" {
		return 0
	}
	if n, ok := model.ParseNumber(string(v)); ok {
		return n
	}
	return m.parseTime(string(v))
}

func commentFrom(c model.CommentData) model.Comment {
	return model.Comment{Comment: c.Comment, Location: c.Location, Timestamp: string(c.Timestamp)}
}

func copyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func copyNumber(dst *model.NullFloat, src *model.NullFloat) {
	if src != nil {
		*dst = *src
	}
}

func copyFloat(dst *float64, src *model.NullFloat) {
	if src != nil && src.Valid {
		*dst = src.Float64
	}
}
