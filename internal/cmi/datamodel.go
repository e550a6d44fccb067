package cmi

import (
	"errors"
	"strconv"
	"strings"

	"scorm_rte/internal/model"
	"scorm_rte/internal/util"
)

type Options struct {
	// CommCheck flags suspend_data values starting with "|" as a broken channel.
	CommCheck bool
	// AutoExit requests navigation once the attempt is completed or passed.
	AutoExit bool
}

// Effects are the side effects a write asks the session to carry out after
// the mutation and its activity entry are in place.
type Effects struct {
	Commit   bool
	Passed   bool
	AutoExit bool
	Invalid  bool
}

// DataModel 是单个学习尝试的数据模型，不做并发控制，由 Session 加锁
type DataModel struct {
	version model.Version
	opts    Options
	rec     *model.Record
}

func New(version model.Version, opts Options) *DataModel {
	return &DataModel{version: version, opts: opts, rec: model.NewRecord(version)}
}

// FromRecord wraps a previously snapshotted record.
func FromRecord(rec *model.Record, opts Options) *DataModel {
	return &DataModel{version: rec.Version, opts: opts, rec: rec}
}

func (m *DataModel) Version() model.Version { return m.version }

func (m *DataModel) Record() *model.Record { return m.rec }

func (m *DataModel) SetOptions(opts Options) { m.opts = opts }

func (m *DataModel) GetValue(path string) (string, error) {
	ref, err := Resolve(m.version, path)
	if err != nil {
		return "", err
	}

	switch ref.Kind {
	case KindChildren, KindVersion:
		return ref.Text, nil
	case KindCount:
		return m.count(ref), nil
	}

	if ref.Access == WriteOnly {
		return "", ErrWriteOnly
	}
	return m.read(ref), nil
}

func (m *DataModel) count(ref Ref) string {
	rec := m.rec
	n := 0
	switch ref.Collection {
	case CollectionLearnerComments:
		n = len(rec.Comments)
	case CollectionLMSComments:
		n = len(rec.LMSComments)
	case CollectionObjectives:
		n = len(rec.Objectives)
	case CollectionInteractions:
		n = len(rec.Interactions)
	case CollectionInteractionObjectives, CollectionCorrectResponses:
		if ref.Index >= len(rec.Interactions) {
			return ""
		}
		inter := rec.Interactions[ref.Index]
		if ref.Collection == CollectionInteractionObjectives {
			n = len(inter.Objectives)
		} else {
			n = len(inter.CorrectResponses)
		}
	}
	return strconv.Itoa(n)
}

func (m *DataModel) read(ref Ref) string {
	rec := m.rec
	switch ref.Collection {
	case CollectionLearnerComments:
		if ref.Index >= len(rec.Comments) {
			return ""
		}
		return readComment(rec.Comments[ref.Index], ref.Field)
	case CollectionLMSComments:
		if ref.Index >= len(rec.LMSComments) {
			return ""
		}
		return readComment(rec.LMSComments[ref.Index], ref.Field)
	case CollectionObjectives:
		if ref.Index >= len(rec.Objectives) {
			return ""
		}
		return readObjective(rec.Objectives[ref.Index], ref.Field)
	case CollectionInteractions:
		if ref.Index >= len(rec.Interactions) {
			return ""
		}
		return m.readInteraction(rec.Interactions[ref.Index], ref.Field)
	case CollectionInteractionObjectives:
		if ref.Index >= len(rec.Interactions) || ref.SubIndex >= len(rec.Interactions[ref.Index].Objectives) {
			return ""
		}
		return rec.Interactions[ref.Index].Objectives[ref.SubIndex]
	case CollectionCorrectResponses:
		if ref.Index >= len(rec.Interactions) || ref.SubIndex >= len(rec.Interactions[ref.Index].CorrectResponses) {
			return ""
		}
		return rec.Interactions[ref.Index].CorrectResponses[ref.SubIndex]
	}

	switch ref.Field {
	case FieldLearnerID:
		return rec.LearnerID
	case FieldLearnerName:
		return rec.LearnerName
	case FieldLocation:
		return rec.Location
	case FieldLaunchData:
		return rec.LaunchData
	case FieldSuspendData:
		return rec.SuspendData
	case FieldEntry:
		return rec.Entry
	case FieldCredit:
		return rec.Credit
	case FieldMode:
		return rec.Mode
	case FieldMaxTimeAllowed:
		return rec.MaxTimeAllowed
	case FieldTimeLimitAction:
		return rec.TimeLimitAction
	case FieldCompletionStatus:
		return rec.CompletionStatus
	case FieldCompletionThreshold:
		return rec.CompletionThreshold.String()
	case FieldSuccessStatus:
		return rec.SuccessStatus
	case FieldLessonStatus:
		// 1.2 只有一个 lesson_status，通过/失败优先于完成状态
		if rec.SuccessStatus == model.StatusPassed || rec.SuccessStatus == model.StatusFailed {
			return rec.SuccessStatus
		}
		return rec.CompletionStatus
	case FieldProgressMeasure:
		return rec.ProgressMeasure.String()
	case FieldScaledPassingScore:
		return rec.ScaledPassingScore.String()
	case FieldTotalTime:
		return m.formatTime(rec.CurrentTotalTime())
	case FieldScoreMin:
		return rec.Score.Min.String()
	case FieldScoreMax:
		return rec.Score.Max.String()
	case FieldScoreRaw:
		return rec.Score.Raw.String()
	case FieldScoreScaled:
		return rec.Score.Scaled.String()
	case FieldPrefAudio:
		return model.FormatNumber(rec.Preferences.AudioLevel)
	case FieldPrefLanguage:
		return rec.Preferences.Language
	case FieldPrefSpeed:
		return model.FormatNumber(rec.Preferences.DeliverySpeed)
	case FieldPrefCaption:
		return model.FormatNumber(rec.Preferences.AudioCaptioning)
	case FieldPageID:
		return rec.PageID
	case FieldPageTitle:
		return rec.PageTitle
	case FieldComments:
		if len(rec.Comments) > 0 {
			return rec.Comments[0].Comment
		}
	case FieldCommentsFromLMS:
		if len(rec.LMSComments) > 0 {
			return rec.LMSComments[0].Comment
		}
	}
	return ""
}

func readComment(c model.Comment, f Field) string {
	switch f {
	case FieldCommentText:
		return c.Comment
	case FieldCommentLocation:
		return c.Location
	case FieldCommentTimestamp:
		return c.Timestamp
	}
	return ""
}

func readObjective(o model.Objective, f Field) string {
	switch f {
	case FieldObjectiveID:
		return o.ID
	case FieldObjectiveSuccess:
		return o.SuccessStatus
	case FieldObjectiveCompletion:
		return o.CompletionStatus
	case FieldObjectiveProgress:
		return o.ProgressMeasure.String()
	case FieldObjectiveDescription:
		return o.Description
	case FieldObjectiveScoreMin:
		return o.Score.Min.String()
	case FieldObjectiveScoreMax:
		return o.Score.Max.String()
	case FieldObjectiveScoreRaw:
		return o.Score.Raw.String()
	case FieldObjectiveScoreScaled:
		return o.Score.Scaled.String()
	}
	return ""
}

func (m *DataModel) readInteraction(i model.Interaction, f Field) string {
	switch f {
	case FieldInteractionID:
		return i.ID
	case FieldInteractionType:
		return i.Type
	case FieldInteractionTimestamp:
		return i.Timestamp
	case FieldInteractionWeighting:
		return i.Weighting.String()
	case FieldInteractionResponse:
		return i.LearnerResponse
	case FieldInteractionResult:
		return i.Result
	case FieldInteractionLatency:
		return m.formatTime(i.Latency)
	case FieldInteractionDescription:
		return i.Description
	}
	return ""
}

// SetValue 写入一个元素。无论写入是否生效，都会在最后追加一条 activity report
func (m *DataModel) SetValue(path, value string) (eff Effects, err error) {
	defer m.rec.Log(path, value)

	ref, err := Resolve(m.version, path)
	if err != nil {
		if errors.Is(err, ErrNoChildren) || errors.Is(err, ErrNotArray) {
			return eff, ErrKeyword
		}
		return eff, err
	}
	if ref.Kind != KindField {
		return eff, ErrKeyword
	}
	if ref.Access == ReadOnly {
		return eff, ErrReadOnly
	}

	switch ref.Collection {
	case CollectionLearnerComments:
		writeComment(m.rec.CommentAt(ref.Index), ref.Field, value)
		return eff, nil
	case CollectionObjectives:
		writeObjective(m.rec.ObjectiveAt(ref.Index), ref.Field, value)
		return eff, nil
	case CollectionInteractions:
		m.writeInteraction(m.rec.InteractionAt(ref.Index), ref.Field, value)
		return eff, nil
	case CollectionInteractionObjectives:
		m.rec.InteractionAt(ref.Index).SetObjectiveID(ref.SubIndex, value)
		return eff, nil
	case CollectionCorrectResponses:
		m.rec.InteractionAt(ref.Index).SetCorrectResponse(ref.SubIndex, value)
		return eff, nil
	}

	m.writeScalar(ref, value, &eff)
	return eff, nil
}

func (m *DataModel) writeScalar(ref Ref, value string, eff *Effects) {
	rec := m.rec
	switch ref.Field {
	case FieldLocation:
		rec.Location = value
		m.logCanonical(ref, value)
	case FieldSuspendData:
		rec.SuspendData = value
		eff.Commit = true
		if m.opts.CommCheck && strings.HasPrefix(value, "|") {
			eff.Invalid = true
		}
	case FieldSessionTime:
		rec.SessionTime = m.parseTime(value)
		m.logCanonical(ref, model.FormatNumber(rec.SessionTime))
	case FieldCompletionStatus:
		if m.setCompletion(value) {
			eff.Commit = true
			eff.Passed = value == model.StatusPassed
			eff.AutoExit = m.autoExit(value)
		}
	case FieldSuccessStatus:
		if m.setSuccess(value) {
			eff.Commit = true
			eff.Passed = value == model.StatusPassed
		}
	case FieldLessonStatus:
		m.writeLessonStatus(value, eff)
	case FieldExit:
		rec.Exit = value
		rec.ExitSet = true
		eff.Commit = true
		m.logCanonical(ref, value)
	case FieldProgressMeasure:
		setNumber(&rec.ProgressMeasure, value)
	case FieldScoreMin:
		if setNumber(&rec.Score.Min, value) {
			m.logCanonical(ref, value)
		}
	case FieldScoreMax:
		if setNumber(&rec.Score.Max, value) {
			m.logCanonical(ref, value)
		}
	case FieldScoreRaw:
		if setNumber(&rec.Score.Raw, value) {
			m.logCanonical(ref, value)
		}
	case FieldScoreScaled:
		setNumber(&rec.Score.Scaled, value)
	case FieldPrefAudio:
		setFloat(&rec.Preferences.AudioLevel, value)
	case FieldPrefLanguage:
		rec.Preferences.Language = value
	case FieldPrefSpeed:
		setFloat(&rec.Preferences.DeliverySpeed, value)
	case FieldPrefCaption:
		setFloat(&rec.Preferences.AudioCaptioning, value)
	case FieldPageID:
		rec.PageID = value
	case FieldPageTitle:
		rec.PageTitle = value
	case FieldComments:
		rec.CommentAt(0).Comment = value
	}
}

// writeLessonStatus splits the 1.2 lesson status onto the completion and
// success fields. It always requests a commit.
func (m *DataModel) writeLessonStatus(value string, eff *Effects) {
	eff.Commit = true

	switch value {
	case model.StatusCompleted, model.StatusIncomplete, model.StatusBrowsed, model.StatusNotAttempted:
		if m.setCompletion(value) {
			m.rec.Log("cmi.completion_status", value)
		}
	case model.StatusPassed, model.StatusFailed:
		// 已完成的尝试不能再读回 failed
		if value == model.StatusFailed && m.completed() {
			return
		}
		if m.setSuccess(value) {
			m.rec.Log("cmi.success_status", value)
			eff.Passed = value == model.StatusPassed
		}
	}
	eff.AutoExit = m.autoExit(value)
}

// setCompletion 已完成的尝试不能再被标记为未完成
func (m *DataModel) setCompletion(value string) bool {
	if m.completed() && (value == model.StatusIncomplete || value == model.StatusFailed) {
		return false
	}
	m.rec.CompletionStatus = value
	return true
}

func (m *DataModel) completed() bool {
	return m.rec.CompletionStatus == model.StatusCompleted || m.rec.CompletionStatus == model.StatusPassed
}

func (m *DataModel) setSuccess(value string) bool {
	if m.rec.SuccessStatus == model.StatusPassed && value == model.StatusFailed {
		return false
	}
	m.rec.SuccessStatus = value
	return true
}

func (m *DataModel) autoExit(value string) bool {
	return m.opts.AutoExit && (value == model.StatusCompleted || value == model.StatusPassed)
}

func (m *DataModel) logCanonical(ref Ref, value string) {
	if ref.Canonical != "" {
		m.rec.Log(ref.Canonical, value)
	}
}

func writeComment(c *model.Comment, f Field, value string) {
	switch f {
	case FieldCommentText:
		c.Comment = value
	case FieldCommentLocation:
		c.Location = value
	case FieldCommentTimestamp:
		c.Timestamp = value
	}
}

func writeObjective(o *model.Objective, f Field, value string) {
	switch f {
	case FieldObjectiveID:
		o.ID = value
	case FieldObjectiveSuccess:
		o.SuccessStatus = value
	case FieldObjectiveCompletion:
		o.CompletionStatus = value
	case FieldObjectiveProgress:
		setNumber(&o.ProgressMeasure, value)
	case FieldObjectiveDescription:
		o.Description = value
	case FieldObjectiveScoreMin:
		setNumber(&o.Score.Min, value)
	case FieldObjectiveScoreMax:
		setNumber(&o.Score.Max, value)
	case FieldObjectiveScoreRaw:
		setNumber(&o.Score.Raw, value)
	case FieldObjectiveScoreScaled:
		setNumber(&o.Score.Scaled, value)
	}
}

func (m *DataModel) writeInteraction(i *model.Interaction, f Field, value string) {
	switch f {
	case FieldInteractionID:
		i.ID = value
	case FieldInteractionType:
		i.Type = value
	case FieldInteractionTimestamp:
		i.Timestamp = value
	case FieldInteractionWeighting:
		setNumber(&i.Weighting, value)
	case FieldInteractionResponse:
		i.LearnerResponse = value
	case FieldInteractionResult:
		i.Result = value
	case FieldInteractionLatency:
		i.Latency = m.parseTime(value)
	case FieldInteractionDescription:
		i.Description = value
	}
}

// parseTime 按版本语法解析时长：2004 为 ISO 8601 duration，1.2 为 HH:MM:SS
func (m *DataModel) parseTime(value string) float64 {
	if m.version == model.Version12 {
		return util.TimeSpanToSeconds(value)
	}
	return util.DurationToSeconds(value)
}

func (m *DataModel) formatTime(seconds float64) string {
	if m.version == model.Version12 {
		return util.SecondsToTimeSpan(seconds)
	}
	return util.SecondsToDuration(seconds)
}

func setNumber(dst *model.NullFloat, value string) bool {
	v, ok := model.ParseNumber(value)
	if !ok {
		return false
	}
	*dst = model.NewNullFloat(v)
	return true
}

func setFloat(dst *float64, value string) bool {
	v, ok := model.ParseNumber(value)
	if !ok {
		return false
	}
	*dst = v
	return true
}
