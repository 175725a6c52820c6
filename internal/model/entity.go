package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleMember  = "member"
	RolePremium = "premium"
	RoleAdmin   = "admin"
)

type User struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `gorm:"default:member;size:16" json:"role"`
	Timezone     string    `gorm:"default:UTC;size:64" json:"timezone"`
	CreatedAt    time.Time `json:"created_at"`
}

type Food struct {
	ID       int     `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"size:255;index" json:"name"`
	Brand    string  `gorm:"size:255" json:"brand"`
	ServingG float64 `json:"serving_g"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbG    float64 `json:"carb_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
	SodiumMg float64 `json:"sodium_mg"`
}

type Meal struct {
	ID       int        `gorm:"primaryKey" json:"id"`
	UserID   int        `gorm:"index:idx_meal_user_day" json:"user_id"`
	MealType string     `gorm:"size:32" json:"meal_type"`
	AteAt    time.Time  `gorm:"index:idx_meal_user_day" json:"ate_at"`
	Note     string     `json:"note"`
	Items    []MealItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

type MealItem struct {
	ID       int     `gorm:"primaryKey" json:"id"`
	MealID   int     `gorm:"index" json:"meal_id"`
	FoodID   *int    `json:"food_id"`
	Name     string  `gorm:"size:255" json:"name"`
	Quantity float64 `json:"quantity"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbG    float64 `json:"carb_g"`
}

type Workout struct {
	ID          int               `gorm:"primaryKey" json:"id"`
	UserID      int               `gorm:"index:idx_workout_user_day" json:"user_id"`
	WorkoutType string            `gorm:"size:32" json:"workout_type"`
	StartedAt   time.Time         `gorm:"index:idx_workout_user_day" json:"started_at"`
	DurationMin int               `json:"duration_min"`
	Note        string            `json:"note"`
	Activities  []WorkoutActivity `gorm:"constraint:OnDelete:CASCADE" json:"activities"`
}

type WorkoutActivity struct {
	ID        int    `gorm:"primaryKey" json:"id"`
	WorkoutID int    `gorm:"index" json:"workout_id"`
	Name      string `gorm:"size:255" json:"name"`
	Minutes   int    `json:"minutes"`
	Intensity string `gorm:"size:16" json:"intensity"`
}

type SleepSession struct {
	ID      int       `gorm:"primaryKey" json:"id"`
	UserID  int       `gorm:"index:idx_sleep_user_day" json:"user_id"`
	Day     string    `gorm:"size:10;index:idx_sleep_user_day" json:"day"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
	Hours   float64   `json:"hours"`
	Quality int       `json:"quality"`
}

type WearableReading struct {
	ID        int     `gorm:"primaryKey" json:"id"`
	UserID    int     `gorm:"uniqueIndex:uk_wearable_user_day" json:"user_id"`
	Day       string  `gorm:"size:10;uniqueIndex:uk_wearable_user_day" json:"day"`
	HRVMs     float64 `gorm:"column:hrv_ms" json:"hrv_ms"`
	RestingHR int     `gorm:"column:resting_hr" json:"resting_hr"`
	Steps     int     `json:"steps"`
	Source    string  `gorm:"size:64" json:"source"`
}

type Goal struct {
	ID          int     `gorm:"primaryKey" json:"id"`
	UserID      int     `gorm:"index" json:"user_id"`
	GoalType    string  `gorm:"size:32" json:"goal_type"`
	TargetValue float64 `json:"target_value"`
	Active      bool    `json:"active"`
	StartDate   string  `gorm:"size:10" json:"start_date"`
}

func (User) TableName() string            { return "users" }
func (Food) TableName() string            { return "foods" }
func (Meal) TableName() string            { return "meals" }
func (MealItem) TableName() string        { return "meal_items" }
func (Workout) TableName() string         { return "workouts" }
func (WorkoutActivity) TableName() string { return "workout_activities" }
func (SleepSession) TableName() string    { return "sleep_sessions" }
func (WearableReading) TableName() string { return "wearable_readings" }
func (Goal) TableName() string            { return "goals" }

// GoalTypes the dashboard compares against current values, in display order.
var GoalTypes = []string{"steps", "sleep_hours", "workout_min", "protein_g", "carb_g"}

// Migrate creates tables everywhere and the aggregation views plus fulltext
// index on MySQL only; the sqlite test database gets just the tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{}, &Food{}, &Meal{}, &MealItem{},
		&Workout{}, &WorkoutActivity{}, &SleepSession{},
		&WearableReading{}, &Goal{},
	); err != nil {
		return err
	}
	if db.Dialector.Name() != "mysql" {
		return nil
	}

	stmts := []string{
		`CREATE FULLTEXT INDEX ft_foods_name_brand ON foods (name, brand)`,
		`CREATE OR REPLACE VIEW daily_readiness AS
		 SELECT user_id, day, AVG(hrv_ms) AS avg_hrv, AVG(resting_hr) AS avg_rhr, MAX(steps) AS steps
		 FROM wearable_readings GROUP BY user_id, day`,
		`CREATE OR REPLACE VIEW daily_nutrients AS
		 SELECT m.user_id, DATE(m.ate_at) AS day,
		        SUM(mi.protein_g) AS protein_g, SUM(mi.carb_g) AS carb_g, SUM(mi.calories) AS calories
		 FROM meals m JOIN meal_items mi ON mi.meal_id = m.id
		 GROUP BY m.user_id, DATE(m.ate_at)`,
		`CREATE OR REPLACE VIEW daily_scores AS
		 SELECT w.user_id, w.day,
		        LEAST(100, GREATEST(0,
		            0.35 * LEAST(w.hrv_ms, 100) +
		            0.25 * GREATEST(0, 100 - w.resting_hr) +
		            0.40 * LEAST(w.steps / 100, 100))) AS score
		 FROM wearable_readings w`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			// fulltext index creation is not idempotent; duplicate runs are fine
			if stmt == stmts[0] {
				continue
			}
			return err
		}
	}
	return nil
}
