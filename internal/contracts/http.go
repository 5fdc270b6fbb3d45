package contracts

type SuccessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type ErrorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Status string       `json:"status"`
	Error  ErrorPayload `json:"error"`
}

type RegisterUserRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type RecordContributionRequest struct {
	UserID      string `json:"user_id"`
	Kind        string `json:"kind"`
	SourceDocID string `json:"source_doc_id,omitempty"`
}

type RecordContributionResponse struct {
	UserID  string `json:"user_id"`
	Kind    string `json:"kind"`
	Points  int    `json:"points"`
	Score   int    `json:"score"`
	Applied bool   `json:"applied"`
}

type StatsBreakdown struct {
	NotesCreated   int `json:"notes_created"`
	DoubtsCreated  int `json:"doubts_created"`
	DoubtsAnswered int `json:"doubts_answered"`
	BlogsCreated   int `json:"blogs_created"`
	ForumThreads   int `json:"forum_threads"`
}

type LeaderboardEntryResponse struct {
	UserID string         `json:"user_id"`
	Name   string         `json:"name,omitempty"`
	Avatar string         `json:"avatar,omitempty"`
	Rank   int            `json:"rank"`
	Score  int            `json:"score"`
	Stats  StatsBreakdown `json:"stats"`
}

type LeaderboardResponse struct {
	Period  string                     `json:"period"`
	Entries []LeaderboardEntryResponse `json:"entries"`
	Page    int                        `json:"page"`
	Limit   int                        `json:"limit"`
	Total   int                        `json:"total"`
}

type MyRankResponse struct {
	UserID string `json:"user_id"`
	Rank   int    `json:"rank"`
	Score  int    `json:"score"`
}

type RecomputeResponse struct {
	UsersProcessed int      `json:"users_processed"`
	UsersTotal     int      `json:"users_total"`
	Failures       []string `json:"failures,omitempty"`
}
