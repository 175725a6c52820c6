package model

// Session is the authenticated identity every handler receives. It is built
// once by the auth middleware from the session cookie; business logic never
// consults ambient state.
type Session struct {
	UserID   int
	Role     string
	Timezone string
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Timezone string `json:"timezone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type MealItemRequest struct {
	FoodID   *int    `json:"food_id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbG    float64 `json:"carb_g"`
}

type MealRequest struct {
	MealType string            `json:"meal_type" binding:"required"`
	AteAt    string            `json:"ate_at" binding:"required"`
	Note     string            `json:"note"`
	Items    []MealItemRequest `json:"items" binding:"required"`
}

type WorkoutActivityRequest struct {
	Name      string `json:"name" binding:"required"`
	Minutes   int    `json:"minutes"`
	Intensity string `json:"intensity"`
}

type WorkoutRequest struct {
	WorkoutType string                   `json:"workout_type" binding:"required"`
	StartedAt   string                   `json:"started_at" binding:"required"`
	DurationMin int                      `json:"duration_min"`
	Note        string                   `json:"note"`
	Activities  []WorkoutActivityRequest `json:"activities" binding:"required"`
}

type SleepRequest struct {
	Day     string  `json:"day" binding:"required"`
	StartAt string  `json:"start_at"`
	EndAt   string  `json:"end_at"`
	Hours   float64 `json:"hours"`
	Quality int     `json:"quality"`
}

type WearableRequest struct {
	Day       string  `json:"day" binding:"required"`
	HRVMs     float64 `json:"hrv_ms"`
	RestingHR int     `json:"resting_hr"`
	Steps     int     `json:"steps"`
	Source    string  `json:"source"`
}

type GoalRequest struct {
	GoalType    string  `json:"goal_type" binding:"required"`
	TargetValue float64 `json:"target_value"`
	StartDate   string  `json:"start_date"`
}

type ChatRequest struct {
	Question string `json:"question" binding:"required"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// Aggregation rows.

type ReadinessRow struct {
	Day        string  `json:"day"`
	AvgHRV     float64 `json:"avg_hrv"`
	AvgRHR     float64 `json:"avg_rhr"`
	Steps      int     `json:"steps"`
	SleepHours float64 `json:"sleep_hours"`
	WorkoutMin int     `json:"workout_min"`
}

type NutrientsRow struct {
	Day      string  `json:"day"`
	ProteinG float64 `json:"protein_g"`
	CarbG    float64 `json:"carb_g"`
}

type GoalProgressRow struct {
	Day         string   `json:"day"`
	GoalType    string   `json:"goal_type"`
	TargetValue float64  `json:"target_value"`
	ActualValue *float64 `json:"actual_value"`
}

type TrendRow struct {
	Day        string   `json:"day"`
	Steps      int      `json:"steps"`
	SleepHours float64  `json:"sleep_hours"`
	WorkoutMin int      `json:"workout_min"`
	ProteinG   float64  `json:"protein_g"`
	CarbG      float64  `json:"carb_g"`
	Score      *float64 `json:"score"`
}

type GoalStatus struct {
	GoalType string   `json:"goal_type"`
	Target   *float64 `json:"target"`
	Current  float64  `json:"current"`
	Percent  *float64 `json:"percent"`
}

type Event struct {
	Kind       string `json:"kind"`
	OccurredAt string `json:"occurred_at"`
	Label      string `json:"label"`
}

type Dashboard struct {
	ScoreTrend []TrendRow    `json:"score_trend"`
	Readiness  *ReadinessRow `json:"readiness"`
	Goals      []GoalStatus  `json:"goals"`
	Events     []Event       `json:"events"`
}
