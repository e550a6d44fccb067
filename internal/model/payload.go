package model

// InitPayload 是 init 接口返回的 JSON，指针字段用于区分"未提供"和零值
type InitPayload struct {
	LearnerID           *string     `json:"learner_id"`
	LearnerName         *string     `json:"learner_name"`
	Location            *string     `json:"location"`
	LaunchData          *string     `json:"launch_data"`
	SuspendData         *string     `json:"suspend_data"`
	Entry               *string     `json:"entry"`
	Credit              *string     `json:"credit"`
	Mode                *string     `json:"mode"`
	MaxTimeAllowed      *FlexString `json:"max_time_allowed"`
	TimeLimitAction     *string     `json:"time_limit_action"`
	CompletionStatus    *string     `json:"completion_status"`
	CompletionThreshold *NullFloat  `json:"completion_threshold"`
	SuccessStatus       *string     `json:"success_status"`
	ProgressMeasure     *NullFloat  `json:"progress_measure"`
	TotalTime           *FlexString `json:"total_time"`
	ScaledPassingScore  *NullFloat  `json:"scaled_passing_score"`
	ScoreMin            *NullFloat  `json:"score_min"`
	ScoreMax            *NullFloat  `json:"score_max"`
	ScoreScaled         *NullFloat  `json:"score_scaled"`
	ScoreRaw            *NullFloat  `json:"score_raw"`
	PrefAudio           *NullFloat  `json:"pref_audio"`
	PrefLang            *string     `json:"pref_lang"`
	PrefSpeed           *NullFloat  `json:"pref_speed"`
	PrefCaption         *NullFloat  `json:"pref_caption"`

	Interactions []InitInteraction `json:"interactions"`
	Comments     []CommentData     `json:"comments"`
	LMSComments  []CommentData     `json:"lms_comments"`
	Objectives   []InitObjective   `json:"objectives"`
}

type InitInteraction struct {
	ID               string     `json:"id"`
	Type             string     `json:"type"`
	Timestamp        FlexString `json:"timestamp"`
	Weighting        NullFloat  `json:"weighting"`
	LearnerResponse  string     `json:"learner_response"`
	Result           string     `json:"result"`
	Latency          FlexString `json:"latency"`
	Description      string     `json:"description"`
	Objectives       []string   `json:"objectives"`
	CorrectResponses []string   `json:"correct_responses"`
}

type InitObjective struct {
	ID               string    `json:"id"`
	SuccessStatus    string    `json:"success_status"`
	CompletionStatus string    `json:"completion_status"`
	ProgressMeasure  NullFloat `json:"progress_measure"`
	Description      string    `json:"description"`
	ScoreMin         NullFloat `json:"score_min"`
	ScoreMax         NullFloat `json:"score_max"`
	ScoreRaw         NullFloat `json:"score_raw"`
	ScoreScaled      NullFloat `json:"score_scaled"`
}

type CommentData struct {
	Comment   string     `json:"comment"`
	Location  string     `json:"location"`
	Timestamp FlexString `json:"timestamp"`
}

// CommitPayload is the body POSTed to the commit endpoint. Optional keys are
// left out when empty so the backend can tell "not touched" from "cleared".
type CommitPayload struct {
	PageID           string    `json:"page_id"`
	PageTitle        string    `json:"page_title"`
	Location         string    `json:"location"`
	SuspendData      string    `json:"suspend_data"`
	CompletionStatus string    `json:"completion_status"`
	SuccessStatus    string    `json:"success_status"`
	ProgressMeasure  NullFloat `json:"progress_measure"`
	ScoreMin         NullFloat `json:"score_min"`
	ScoreMax         NullFloat `json:"score_max"`
	ScoreScaled      NullFloat `json:"score_scaled"`
	ScoreRaw         NullFloat `json:"score_raw"`
	PrefAudio        float64   `json:"pref_audio"`
	PrefLang         string    `json:"pref_lang"`
	PrefSpeed        float64   `json:"pref_speed"`

	Exit           *string             `json:"exit,omitempty"`
	SessionTime    float64             `json:"session_time,omitempty"`
	ActivityReport []ActivityEntry     `json:"activity_report,omitempty"`
	Interactions   []CommitInteraction `json:"interactions,omitempty"`
	Comments       []CommentData       `json:"comments,omitempty"`
	Objectives     []CommitObjective   `json:"objectives,omitempty"`
}

type CommitInteraction struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	Timestamp        string    `json:"timestamp"`
	Weighting        NullFloat `json:"weighting"`
	LearnerResponse  string    `json:"learner_response"`
	Result           string    `json:"result"`
	Latency          float64   `json:"latency"`
	Description      string    `json:"description"`
	Objectives       []string  `json:"objectives,omitempty"`
	CorrectResponses []string  `json:"correct_responses,omitempty"`
}

type CommitObjective struct {
	ID               string    `json:"id"`
	SuccessStatus    string    `json:"success_status"`
	CompletionStatus string    `json:"completion_status"`
	ProgressMeasure  NullFloat `json:"progress_measure"`
	Description      string    `json:"description"`
	ScoreMin         NullFloat `json:"score_min"`
	ScoreMax         NullFloat `json:"score_max"`
	ScoreRaw         NullFloat `json:"score_raw"`
	ScoreScaled      NullFloat `json:"score_scaled"`
}
