package cmi

import (
	"strings"

	"scorm_rte/internal/model"
)

type Kind int

const (
	KindField Kind = iota
	KindCount
	KindChildren
	KindVersion
)

type Access int

const (
	ReadWrite Access = iota
	ReadOnly
	WriteOnly
)

// Field identifies one scalar slot of the attempt record or of a collection item.
type Field int

const (
	FieldNone Field = iota

	FieldLearnerID
	FieldLearnerName
	FieldLocation
	FieldLaunchData
	FieldSuspendData
	FieldEntry
	FieldCredit
	FieldMode
	FieldMaxTimeAllowed
	FieldTimeLimitAction
	FieldCompletionStatus
	FieldCompletionThreshold
	FieldSuccessStatus
	FieldLessonStatus
	FieldProgressMeasure
	FieldScaledPassingScore
	FieldTotalTime
	FieldSessionTime
	FieldScoreMin
	FieldScoreMax
	FieldScoreRaw
	FieldScoreScaled
	FieldPrefAudio
	FieldPrefLanguage
	FieldPrefSpeed
	FieldPrefCaption
	FieldExit
	FieldPageID
	FieldPageTitle
	FieldComments
	FieldCommentsFromLMS

	FieldCommentText
	FieldCommentLocation
	FieldCommentTimestamp

	FieldObjectiveID
	FieldObjectiveSuccess
	FieldObjectiveCompletion
	FieldObjectiveProgress
	FieldObjectiveDescription
	FieldObjectiveScoreMin
	FieldObjectiveScoreMax
	FieldObjectiveScoreRaw
	FieldObjectiveScoreScaled

	FieldInteractionID
	FieldInteractionType
	FieldInteractionTimestamp
	FieldInteractionWeighting
	FieldInteractionResponse
	FieldInteractionResult
	FieldInteractionLatency
	FieldInteractionDescription
	FieldInteractionObjectiveID
	FieldInteractionPattern
)

type Collection int

const (
	CollectionNone Collection = iota
	CollectionLearnerComments
	CollectionLMSComments
	CollectionObjectives
	CollectionInteractions
	CollectionInteractionObjectives
	CollectionCorrectResponses
)

type entry struct {
	kind       Kind
	field      Field
	collection Collection
	access     Access
	text       string
	canonical  string
}

func scalar(f Field, a Access) entry {
	return entry{kind: KindField, field: f, access: a}
}

func item(c Collection, f Field, a Access) entry {
	return entry{kind: KindField, field: f, collection: c, access: a}
}

func count(c Collection) entry {
	return entry{kind: KindCount, collection: c, access: ReadOnly}
}

func children(list string) entry {
	return entry{kind: KindChildren, access: ReadOnly, text: list}
}

func version(v string) entry {
	return entry{kind: KindVersion, access: ReadOnly, text: v}
}

// as records the 2004 style property the activity report also receives
// when a legacy alias is written.
func (e entry) as(canonical string) entry {
	e.canonical = canonical
	return e
}

type schema map[string]entry

var schema2004 = schema{
	"cmi._version":  version("1.0"),
	"cmi._children": children("_version,comments_from_learner,comments_from_lms,completion_status,credit,entry,exit,interactions,launch_data,learner_id,learner_name,learner_preference,location,max_time_allowed,mode,objectives,progress_measure,scaled_passing_score,score,session_time,success_status,suspend_data,time_limit_action,total_time"),

	"cmi.comments_from_learner._children":     children("comment,timestamp,location"),
	"cmi.comments_from_learner._count":        count(CollectionLearnerComments),
	"cmi.comments_from_learner.n.comment":     item(CollectionLearnerComments, FieldCommentText, ReadWrite),
	"cmi.comments_from_learner.n.location":    item(CollectionLearnerComments, FieldCommentLocation, ReadWrite),
	"cmi.comments_from_learner.n.timestamp":   item(CollectionLearnerComments, FieldCommentTimestamp, ReadWrite),
	"cmi.comments_from_lms._children":         children("comment,timestamp,location"),
	"cmi.comments_from_lms._count":            count(CollectionLMSComments),
	"cmi.comments_from_lms.n.comment":         item(CollectionLMSComments, FieldCommentText, ReadOnly),
	"cmi.comments_from_lms.n.location":        item(CollectionLMSComments, FieldCommentLocation, ReadOnly),
	"cmi.comments_from_lms.n.timestamp":       item(CollectionLMSComments, FieldCommentTimestamp, ReadOnly),
	"cmi.completion_status":                   scalar(FieldCompletionStatus, ReadWrite),
	"cmi.completion_threshold":                scalar(FieldCompletionThreshold, ReadOnly),
	"cmi.credit":                              scalar(FieldCredit, ReadOnly),
	"cmi.entry":                               scalar(FieldEntry, ReadOnly),
	"cmi.exit":                                scalar(FieldExit, WriteOnly),
	"cmi.launch_data":                         scalar(FieldLaunchData, ReadOnly),
	"cmi.learner_id":                          scalar(FieldLearnerID, ReadOnly),
	"cmi.learner_name":                        scalar(FieldLearnerName, ReadOnly),
	"cmi.learner_preference._children":        children("audio_level,audio_captioning,delivery_speed,language"),
	"cmi.learner_preference.audio_level":      scalar(FieldPrefAudio, ReadWrite),
	"cmi.learner_preference.language":         scalar(FieldPrefLanguage, ReadWrite),
	"cmi.learner_preference.delivery_speed":   scalar(FieldPrefSpeed, ReadWrite),
	"cmi.learner_preference.audio_captioning": scalar(FieldPrefCaption, ReadWrite),
	"cmi.location":                            scalar(FieldLocation, ReadWrite),
	"cmi.max_time_allowed":                    scalar(FieldMaxTimeAllowed, ReadOnly),
	"cmi.mode":                                scalar(FieldMode, ReadOnly),
	"cmi.progress_measure":                    scalar(FieldProgressMeasure, ReadWrite),
	"cmi.scaled_passing_score":                scalar(FieldScaledPassingScore, ReadOnly),
	"cmi.score._children":                     children("max,raw,scaled,min"),
	"cmi.score.scaled":                        scalar(FieldScoreScaled, ReadWrite),
	"cmi.score.raw":                           scalar(FieldScoreRaw, ReadWrite),
	"cmi.score.min":                           scalar(FieldScoreMin, ReadWrite),
	"cmi.score.max":                           scalar(FieldScoreMax, ReadWrite),
	"cmi.session_time":                        scalar(FieldSessionTime, WriteOnly),
	"cmi.success_status":                      scalar(FieldSuccessStatus, ReadWrite),
	"cmi.suspend_data":                        scalar(FieldSuspendData, ReadWrite),
	"cmi.time_limit_action":                   scalar(FieldTimeLimitAction, ReadOnly),
	"cmi.total_time":                          scalar(FieldTotalTime, ReadOnly),
	"cmi.page_id":                             scalar(FieldPageID, ReadWrite),
	"cmi.page_title":                          scalar(FieldPageTitle, ReadWrite),

	"cmi.objectives._children":           children("progress_measure,completion_status,success_status,description,score,id"),
	"cmi.objectives._count":              count(CollectionObjectives),
	"cmi.objectives.n.id":                item(CollectionObjectives, FieldObjectiveID, ReadWrite),
	"cmi.objectives.n.success_status":    item(CollectionObjectives, FieldObjectiveSuccess, ReadWrite),
	"cmi.objectives.n.completion_status": item(CollectionObjectives, FieldObjectiveCompletion, ReadWrite),
	"cmi.objectives.n.progress_measure":  item(CollectionObjectives, FieldObjectiveProgress, ReadWrite),
	"cmi.objectives.n.description":       item(CollectionObjectives, FieldObjectiveDescription, ReadWrite),
	"cmi.objectives.n.score._children":   children("max,raw,scaled,min"),
	"cmi.objectives.n.score.min":         item(CollectionObjectives, FieldObjectiveScoreMin, ReadWrite),
	"cmi.objectives.n.score.max":         item(CollectionObjectives, FieldObjectiveScoreMax, ReadWrite),
	"cmi.objectives.n.score.raw":         item(CollectionObjectives, FieldObjectiveScoreRaw, ReadWrite),
	"cmi.objectives.n.score.scaled":      item(CollectionObjectives, FieldObjectiveScoreScaled, ReadWrite),

	"cmi.interactions._children":                     children("id,type,objectives,timestamp,correct_responses,weighting,learner_response,result,latency,description"),
	"cmi.interactions._count":                        count(CollectionInteractions),
	"cmi.interactions.n.id":                          item(CollectionInteractions, FieldInteractionID, ReadWrite),
	"cmi.interactions.n.type":                        item(CollectionInteractions, FieldInteractionType, ReadWrite),
	"cmi.interactions.n.timestamp":                   item(CollectionInteractions, FieldInteractionTimestamp, ReadWrite),
	"cmi.interactions.n.weighting":                   item(CollectionInteractions, FieldInteractionWeighting, ReadWrite),
	"cmi.interactions.n.learner_response":            item(CollectionInteractions, FieldInteractionResponse, ReadWrite),
	"cmi.interactions.n.result":                      item(CollectionInteractions, FieldInteractionResult, ReadWrite),
	"cmi.interactions.n.latency":                     item(CollectionInteractions, FieldInteractionLatency, ReadWrite),
	"cmi.interactions.n.description":                 item(CollectionInteractions, FieldInteractionDescription, ReadWrite),
	"cmi.interactions.n.objectives._count":           count(CollectionInteractionObjectives),
	"cmi.interactions.n.objectives.n":                item(CollectionInteractionObjectives, FieldInteractionObjectiveID, ReadWrite),
	"cmi.interactions.n.objectives.n.id":             item(CollectionInteractionObjectives, FieldInteractionObjectiveID, ReadWrite),
	"cmi.interactions.n.correct_responses._count":    count(CollectionCorrectResponses),
	"cmi.interactions.n.correct_responses.n":         item(CollectionCorrectResponses, FieldInteractionPattern, ReadWrite),
	"cmi.interactions.n.correct_responses.n.pattern": item(CollectionCorrectResponses, FieldInteractionPattern, ReadWrite),
}

var schema12 = schema{
	"cmi._version":  version("3.4"),
	"cmi._children": children("core,suspend_data,launch_data,comments,objectives,student_data,student_preference,interactions"),

	"cmi.core._children":       children("student_id,student_name,lesson_location,credit,lesson_status,entry,score,total_time,lesson_mode,exit,session_time"),
	"cmi.core.student_id":      scalar(FieldLearnerID, ReadOnly),
	"cmi.core.student_name":    scalar(FieldLearnerName, ReadOnly),
	"cmi.core.lesson_location": scalar(FieldLocation, ReadWrite).as("cmi.location"),
	"cmi.core.credit":          scalar(FieldCredit, ReadOnly),
	"cmi.core.lesson_status":   scalar(FieldLessonStatus, ReadWrite),
	"cmi.core.entry":           scalar(FieldEntry, ReadOnly),
	"cmi.core.score._children": children("raw,min,max"),
	"cmi.core.score.raw":       scalar(FieldScoreRaw, ReadWrite).as("cmi.score_raw"),
	"cmi.core.score.min":       scalar(FieldScoreMin, ReadWrite).as("cmi.score_min"),
	"cmi.core.score.max":       scalar(FieldScoreMax, ReadWrite).as("cmi.score_max"),
	"cmi.core.total_time":      scalar(FieldTotalTime, ReadOnly),
	"cmi.core.lesson_mode":     scalar(FieldMode, ReadOnly),
	"cmi.core.exit":            scalar(FieldExit, WriteOnly).as("cmi.exit"),
	"cmi.core.session_time":    scalar(FieldSessionTime, WriteOnly).as("cmi.session_time"),

	"cmi.suspend_data":      scalar(FieldSuspendData, ReadWrite),
	"cmi.launch_data":       scalar(FieldLaunchData, ReadOnly),
	"cmi.comments":          scalar(FieldComments, ReadWrite),
	"cmi.comments_from_lms": scalar(FieldCommentsFromLMS, ReadOnly),
	"cmi.page_id":           scalar(FieldPageID, ReadWrite),
	"cmi.page_title":        scalar(FieldPageTitle, ReadWrite),

	// 2004 风格的状态字段在 1.2 下也可读，写入只能通过 cmi.core.lesson_status
	"cmi.completion_status": scalar(FieldCompletionStatus, ReadOnly),
	"cmi.success_status":    scalar(FieldSuccessStatus, ReadOnly),

	"cmi.student_data._children":         children("mastery_score,max_time_allowed,time_limit_action"),
	"cmi.student_data.mastery_score":     scalar(FieldScaledPassingScore, ReadOnly),
	"cmi.student_data.max_time_allowed":  scalar(FieldMaxTimeAllowed, ReadOnly),
	"cmi.student_data.time_limit_action": scalar(FieldTimeLimitAction, ReadOnly),

	"cmi.student_preference._children": children("audio,language,speed,text"),
	"cmi.student_preference.audio":     scalar(FieldPrefAudio, ReadWrite),
	"cmi.student_preference.language":  scalar(FieldPrefLanguage, ReadWrite),
	"cmi.student_preference.speed":     scalar(FieldPrefSpeed, ReadWrite),
	"cmi.student_preference.text":      scalar(FieldPrefCaption, ReadWrite),

	"cmi.objectives._children":         children("id,score,status"),
	"cmi.objectives._count":            count(CollectionObjectives),
	"cmi.objectives.n.id":              item(CollectionObjectives, FieldObjectiveID, ReadWrite),
	"cmi.objectives.n.status":          item(CollectionObjectives, FieldObjectiveCompletion, ReadWrite),
	"cmi.objectives.n.score._children": children("raw,min,max"),
	"cmi.objectives.n.score.raw":       item(CollectionObjectives, FieldObjectiveScoreRaw, ReadWrite),
	"cmi.objectives.n.score.min":       item(CollectionObjectives, FieldObjectiveScoreMin, ReadWrite),
	"cmi.objectives.n.score.max":       item(CollectionObjectives, FieldObjectiveScoreMax, ReadWrite),

	"cmi.interactions._children":                     children("id,objectives,time,type,correct_responses,weighting,student_response,result,latency"),
	"cmi.interactions._count":                        count(CollectionInteractions),
	"cmi.interactions.n.id":                          item(CollectionInteractions, FieldInteractionID, ReadWrite),
	"cmi.interactions.n.time":                        item(CollectionInteractions, FieldInteractionTimestamp, ReadWrite),
	"cmi.interactions.n.type":                        item(CollectionInteractions, FieldInteractionType, ReadWrite),
	"cmi.interactions.n.weighting":                   item(CollectionInteractions, FieldInteractionWeighting, ReadWrite),
	"cmi.interactions.n.student_response":            item(CollectionInteractions, FieldInteractionResponse, ReadWrite),
	"cmi.interactions.n.result":                      item(CollectionInteractions, FieldInteractionResult, ReadWrite),
	"cmi.interactions.n.latency":                     item(CollectionInteractions, FieldInteractionLatency, ReadWrite),
	"cmi.interactions.n.objectives._count":           count(CollectionInteractionObjectives),
	"cmi.interactions.n.objectives.n":                item(CollectionInteractionObjectives, FieldInteractionObjectiveID, ReadWrite),
	"cmi.interactions.n.objectives.n.id":             item(CollectionInteractionObjectives, FieldInteractionObjectiveID, ReadWrite),
	"cmi.interactions.n.correct_responses._count":    count(CollectionCorrectResponses),
	"cmi.interactions.n.correct_responses.n":         item(CollectionCorrectResponses, FieldInteractionPattern, ReadWrite),
	"cmi.interactions.n.correct_responses.n.pattern": item(CollectionCorrectResponses, FieldInteractionPattern, ReadWrite),
}

var (
	schemas = map[model.Version]schema{
		model.Version2004: schema2004,
		model.Version12:   schema12,
	}
	// 所有叶子节点的上级路径，用于区分"分支"和"未定义"
	branches = map[model.Version]map[string]bool{
		model.Version2004: branchSet(schema2004),
		model.Version12:   branchSet(schema12),
	}
)

func branchSet(s schema) map[string]bool {
	set := make(map[string]bool)
	for key := range s {
		parts := strings.Split(key, ".")
		for i := 1; i < len(parts); i++ {
			set[strings.Join(parts[:i], ".")] = true
		}
	}
	return set
}
