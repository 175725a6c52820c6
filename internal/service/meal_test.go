package service

import (
	"context"
	"testing"

	"longevityhub/internal/apperr"
	"longevityhub/internal/model"
)

func intPtr(v int) *int { return &v }

func TestMealRoundTripKeepsEveryItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)
	ctx := context.Background()

	req := model.MealRequest{
		MealType: "lunch",
		AteAt:    testDay(0),
		Items: []model.MealItemRequest{
			{Name: "chicken breast", Quantity: 150, Calories: 240, ProteinG: 45, CarbG: 0},
			{Name: "rice", Quantity: 200, Calories: 260, ProteinG: 5, CarbG: 56},
			{FoodID: intPtr(1), Name: "broccoli", Quantity: 100, Calories: 34, ProteinG: 2.8, CarbG: 6.6},
		},
	}
	created, err := svc.Create(ctx, 1, req)
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}
	if len(created.Items) != 3 {
		t.Fatalf("created meal has %d items, want 3", len(created.Items))
	}

	meals, err := svc.List(ctx, 1, "7d", testToday())
	if err != nil {
		t.Fatalf("list meals: %v", err)
	}
	if len(meals) != 1 {
		t.Fatalf("listed %d meals, want 1", len(meals))
	}
	got := meals[0]
	if len(got.Items) != 3 {
		t.Fatalf("listed meal has %d items, want 3", len(got.Items))
	}
	for i, it := range got.Items {
		want := req.Items[i]
		if it.Name != want.Name || it.Quantity != want.Quantity || it.ProteinG != want.ProteinG {
			t.Fatalf("item %d = %+v, want %+v", i, it, want)
		}
	}
}

func TestMealCreateRejectsEmptyItemList(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)

	_, err := svc.Create(context.Background(), 1, model.MealRequest{
		MealType: "snack", AteAt: testDay(0), Items: nil,
	})
	if apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("err kind = %v, want validation", apperr.KindOf(err))
	}

	var count int64
	db.Model(&model.Meal{}).Count(&count)
	if count != 0 {
		t.Fatalf("%d meals written after rejected create", count)
	}
}

func TestMealDeleteCascadesToItemsAndSubsequentGetIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, model.MealRequest{
		MealType: "dinner", AteAt: testDay(0),
		Items: []model.MealItemRequest{{Name: "salmon", Quantity: 180, Calories: 370}},
	})
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}

	if err := svc.Delete(ctx, 1, created.ID); err != nil {
		t.Fatalf("delete meal: %v", err)
	}

	var itemCount int64
	db.Model(&model.MealItem{}).Where("meal_id = ?", created.ID).Count(&itemCount)
	if itemCount != 0 {
		t.Fatalf("%d orphan items after delete", itemCount)
	}

	_, err = svc.Get(ctx, 1, created.ID)
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("get after delete kind = %v, want not_found", apperr.KindOf(err))
	}
}

func TestMealGetDoesNotLeakOtherUsersRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, model.MealRequest{
		MealType: "breakfast", AteAt: testDay(0),
		Items: []model.MealItemRequest{{Name: "oats", Quantity: 60, Calories: 230}},
	})
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}

	_, err = svc.Get(ctx, 2, created.ID)
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("cross-user get kind = %v, want not_found", apperr.KindOf(err))
	}
}

func TestMealUpdateReplacesItemsAtomically(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, model.MealRequest{
		MealType: "lunch", AteAt: testDay(0),
		Items: []model.MealItemRequest{
			{Name: "pasta", Quantity: 200, Calories: 320},
			{Name: "sauce", Quantity: 80, Calories: 60},
		},
	})
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}

	updated, err := svc.Update(ctx, 1, created.ID, model.MealRequest{
		MealType: "lunch", AteAt: testDay(0),
		Items: []model.MealItemRequest{{Name: "salad", Quantity: 150, Calories: 90}},
	})
	if err != nil {
		t.Fatalf("update meal: %v", err)
	}
	if len(updated.Items) != 1 || updated.Items[0].Name != "salad" {
		t.Fatalf("updated items = %+v, want single salad", updated.Items)
	}

	var itemCount int64
	db.Model(&model.MealItem{}).Where("meal_id = ?", created.ID).Count(&itemCount)
	if itemCount != 1 {
		t.Fatalf("%d items after update, want 1", itemCount)
	}
}
