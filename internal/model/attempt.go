package model

// Version 标识内容包使用的 SCORM 运行时版本
type Version string

const (
	Version12   Version = "1.2"
	Version2004 Version = "2004"
)

func (v Version) Valid() bool {
	return v == Version12 || v == Version2004
}

const (
	StatusCompleted    = "completed"
	StatusIncomplete   = "incomplete"
	StatusNotAttempted = "not attempted"
	StatusBrowsed      = "browsed"
	StatusUnknown      = "unknown"
	StatusPassed       = "passed"
	StatusFailed       = "failed"

	ExitSuspend = "suspend"

	EntryAbInitio = "ab-initio"
	CreditCredit  = "credit"
	ModeNormal    = "normal"

	TimeLimitContinueNoMessage = "continue,no message"
)

// Score holds the four optional score components shared by the record and objectives.
type Score struct {
	Min    NullFloat `json:"min"`
	Max    NullFloat `json:"max"`
	Raw    NullFloat `json:"raw"`
	Scaled NullFloat `json:"scaled"`
}

type Preferences struct {
	AudioLevel      float64 `json:"audio_level"`
	Language        string  `json:"language"`
	DeliverySpeed   float64 `json:"delivery_speed"`
	AudioCaptioning float64 `json:"audio_captioning"`
}

type Objective struct {
	ID               string    `json:"id"`
	SuccessStatus    string    `json:"success_status"`
	CompletionStatus string    `json:"completion_status"`
	ProgressMeasure  NullFloat `json:"progress_measure"`
	Description      string    `json:"description"`
	Score            Score     `json:"score"`
}

// Interaction latency is kept in seconds; it is converted through the
// version time grammar on read and on init.
type Interaction struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	Timestamp        string    `json:"timestamp"`
	Weighting        NullFloat `json:"weighting"`
	LearnerResponse  string    `json:"learner_response"`
	Result           string    `json:"result"`
	Latency          float64   `json:"latency"`
	Description      string    `json:"description"`
	Objectives       []string  `json:"objectives"`
	CorrectResponses []string  `json:"correct_responses"`
}

func (i *Interaction) SetObjectiveID(n int, id string) {
	i.Objectives = setPadded(i.Objectives, n, id)
}

func (i *Interaction) SetCorrectResponse(n int, pattern string) {
	i.CorrectResponses = setPadded(i.CorrectResponses, n, pattern)
}

func setPadded(list []string, n int, v string) []string {
	for len(list) <= n {
		list = append(list, "")
	}
	list[n] = v
	return list
}

type Comment struct {
	Comment   string `json:"comment"`
	Location  string `json:"location"`
	Timestamp string `json:"timestamp"`
}

type ActivityEntry struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// Record 是一次学习尝试的完整数据，一个页面上下文只有一个
type Record struct {
	Version         Version `json:"version"`
	LearnerID       string  `json:"learner_id"`
	LearnerName     string  `json:"learner_name"`
	Location        string  `json:"location"`
	LaunchData      string  `json:"launch_data"`
	SuspendData     string  `json:"suspend_data"`
	Entry           string  `json:"entry"`
	Credit          string  `json:"credit"`
	Mode            string  `json:"mode"`
	MaxTimeAllowed  string  `json:"max_time_allowed"`
	TimeLimitAction string  `json:"time_limit_action"`

	CompletionStatus    string    `json:"completion_status"`
	CompletionThreshold NullFloat `json:"completion_threshold"`
	SuccessStatus       string    `json:"success_status"`
	ProgressMeasure     NullFloat `json:"progress_measure"`
	ScaledPassingScore  NullFloat `json:"scaled_passing_score"`

	// seconds
	TotalTime   float64 `json:"total_time"`
	SessionTime float64 `json:"session_time"`

	Score       Score       `json:"score"`
	Preferences Preferences `json:"preferences"`

	Exit    string `json:"exit"`
	ExitSet bool   `json:"exit_set"`

	PageID    string `json:"page_id"`
	PageTitle string `json:"page_title"`

	Objectives   []Objective   `json:"objectives"`
	Interactions []Interaction `json:"interactions"`
	Comments     []Comment     `json:"comments"`
	LMSComments  []Comment     `json:"lms_comments"`

	ActivityReport []ActivityEntry `json:"activity_report"`
	// ActivityBase counts entries already acknowledged and dropped from ActivityReport.
	ActivityBase int `json:"activity_base"`
}

func NewRecord(version Version) *Record {
	completion := StatusUnknown
	if version == Version12 {
		completion = StatusIncomplete
	}
	return &Record{
		Version:          version,
		Entry:            EntryAbInitio,
		Credit:           CreditCredit,
		Mode:             ModeNormal,
		TimeLimitAction:  TimeLimitContinueNoMessage,
		CompletionStatus: completion,
		SuccessStatus:    StatusUnknown,
	}
}

// ObjectiveAt returns the objective at n, allocating default entries up to n.
func (r *Record) ObjectiveAt(n int) *Objective {
	for len(r.Objectives) <= n {
		r.Objectives = append(r.Objectives, Objective{})
	}
	return &r.Objectives[n]
}

func (r *Record) InteractionAt(n int) *Interaction {
	for len(r.Interactions) <= n {
		r.Interactions = append(r.Interactions, Interaction{})
	}
	return &r.Interactions[n]
}

func (r *Record) CommentAt(n int) *Comment {
	for len(r.Comments) <= n {
		r.Comments = append(r.Comments, Comment{})
	}
	return &r.Comments[n]
}

func (r *Record) Log(property, value string) {
	r.ActivityReport = append(r.ActivityReport, ActivityEntry{Property: property, Value: value})
}

// ActivityMark returns the absolute position just past the last logged entry.
func (r *Record) ActivityMark() int {
	return r.ActivityBase + len(r.ActivityReport)
}

// AckActivity drops the entries logged before mark. Entries appended after
// the mark was taken stay in the report.
func (r *Record) AckActivity(mark int) {
	n := mark - r.ActivityBase
	if n <= 0 {
		return
	}
	if n > len(r.ActivityReport) {
		n = len(r.ActivityReport)
	}
	r.ActivityReport = append([]ActivityEntry(nil), r.ActivityReport[n:]...)
	r.ActivityBase += n
}

// CurrentTotalTime 累计时间 = 已存储总时长 + 本次会话时长
func (r *Record) CurrentTotalTime() float64 {
	return r.TotalTime + r.SessionTime
}
