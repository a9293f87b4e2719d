package gamifyv1

// Stats is a player's balance.
type Stats struct {
	Points        int64 `json:"points"`
	Currency      int64 `json:"currency"`
	Streak        int64 `json:"streak"`
	LongestStreak int64 `json:"longest_streak"`
	Revision      int64 `json:"revision,omitempty"`
}

// Rewards is a reward bundle. Revision is the stats revision the grant
// produced.
type Rewards struct {
	Points   int64 `json:"points"`
	Currency int64 `json:"currency"`
	Revision int64 `json:"revision,omitempty"`
}

// Goal is a savings goal.
type Goal struct {
	Id            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	TargetAmount  string `json:"target_amount"`
	CurrentAmount string `json:"current_amount"`
	CurrentLevel  int32  `json:"current_level"`
	TotalLevels   int32  `json:"total_levels"`
	Status        string `json:"status"`
	DailyTarget   string `json:"daily_target,omitempty"`
	TargetDate    string `json:"target_date,omitempty"`
}

type ListGoalsRequest struct{}

type ListGoalsResponse struct {
	Goals []*Goal `json:"goals"`
}

type CreateGoalRequest struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	TargetAmount string `json:"target_amount"`
	TargetDate   string `json:"target_date,omitempty"`
}

type CreateGoalResponse struct {
	Goal *Goal `json:"goal"`
}

type ContributeToGoalRequest struct {
	GoalId string `json:"goal_id"`
	Amount string `json:"amount"`
}

type ContributeToGoalResponse struct {
	Goal     *Goal    `json:"goal"`
	LevelUp  bool     `json:"level_up"`
	NewLevel int32    `json:"new_level,omitempty"`
	Rewards  *Rewards `json:"rewards,omitempty"`
}

// Quest is a time-boxed challenge.
type Quest struct {
	Id             string `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	PointsReward   int64  `json:"points_reward"`
	CurrencyReward int64  `json:"currency_reward"`
	Status         string `json:"status"`
	ExpiresAt      string `json:"expires_at,omitempty"`
}

type ListQuestsRequest struct {
	// Filter is an AIP-160 expression over category and status.
	Filter string `json:"filter,omitempty"`
}

type ListQuestsResponse struct {
	Quests []*Quest `json:"quests"`
}

type AcceptQuestRequest struct {
	QuestId string `json:"quest_id"`
}

type AcceptQuestResponse struct {
	Quest *Quest `json:"quest"`
}

type CompleteQuestRequest struct {
	QuestId string `json:"quest_id"`
}

type CompleteQuestResponse struct {
	Quest   *Quest   `json:"quest"`
	Rewards *Rewards `json:"rewards,omitempty"`
}

type VetoVote struct {
	UserId string `json:"user_id"`
	Vote   string `json:"vote"`
}

// VetoRequest is a purchase submitted for friends to approve or veto.
type VetoRequest struct {
	Id            string      `json:"id"`
	RequesterId   string      `json:"requester_id"`
	RequesterName string      `json:"requester_name"`
	Item          string      `json:"item"`
	Amount        string      `json:"amount"`
	Reason        string      `json:"reason"`
	Status        string      `json:"status"`
	Votes         []*VetoVote `json:"votes"`
	CreatedAt     string      `json:"created_at"`
}

type ListVetoRequestsRequest struct{}

type ListVetoRequestsResponse struct {
	Requests []*VetoRequest `json:"requests"`
	// ApprovalsCast counts every approve vote the caller ever cast.
	ApprovalsCast int32 `json:"approvals_cast"`
}

type CreateVetoRequestRequest struct {
	Item   string `json:"item"`
	Amount string `json:"amount"`
	Reason string `json:"reason"`
}

type CreateVetoRequestResponse struct {
	Request *VetoRequest `json:"request"`
}

type VoteOnVetoRequestRequest struct {
	RequestId string `json:"request_id"`
	Vote      string `json:"vote"`
}

type VoteOnVetoRequestResponse struct {
	Request *VetoRequest `json:"request"`
}

type Placement struct {
	CellIndex int32  `json:"cell_index"`
	ItemId    string `json:"item_id"`
}

type ListPlacementsRequest struct{}

type ListPlacementsResponse struct {
	Placements []*Placement `json:"placements"`
}

type PlaceItemRequest struct {
	CellIndex int32  `json:"cell_index"`
	ItemId    string `json:"item_id"`
}

type PlaceItemResponse struct {
	Placements []*Placement `json:"placements"`
	Stats      *Stats       `json:"stats"`
}

type GetGameStatsRequest struct{}

type GetGameStatsResponse struct {
	Stats *Stats `json:"stats"`
}

type GetStreakCalendarRequest struct {
	Year  int32 `json:"year"`
	Month int32 `json:"month"`
}

type GetStreakCalendarResponse struct {
	Days []int32 `json:"days"`
}

type LeaderboardEntry struct {
	Rank     int32  `json:"rank"`
	UserId   string `json:"user_id"`
	UserName string `json:"user_name"`
	Points   int64  `json:"points"`
	Streak   int64  `json:"streak"`
}

type GetLeaderboardRequest struct {
	Limit int32 `json:"limit,omitempty"`
}

type GetLeaderboardResponse struct {
	Entries []*LeaderboardEntry `json:"entries"`
}

type ListNudgesRequest struct{}

type ListNudgesResponse struct {
	ToUserIds []string `json:"to_user_ids"`
}

type SendNudgeRequest struct {
	ToUserId string `json:"to_user_id"`
	GoalName string `json:"goal_name"`
}

type SendNudgeResponse struct{}

type RecordDailyFlowRequest struct {
	Date     string `json:"date"`
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
}

type RecordDailyFlowResponse struct {
	Stats *Stats `json:"stats"`
}
