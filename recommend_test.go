package mindsight

import (
	"reflect"
	"testing"
)

func exerciseIDs(recs []Recommendation) []int {
	ids := make([]int, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	return ids
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		level    float64
		emotions EmotionDistribution
		limit    int
		ids      []int
		priority string
		desc     string
	}{
		{8, nil, 3, []int{1, 3, 5}, PriorityImmediateCalm, "High risk prefers beginner calming"},
		{7, EmotionDistribution{EmotionAnger: 1}, 3, []int{1, 3, 5}, PriorityImmediateCalm, "Difficulty outranks emotion at high risk"},
		{5, EmotionDistribution{EmotionSadness: 0.8, EmotionNeutral: 0.2}, 3, []int{2, 4, 1}, PriorityEmotionalRegulation, "Sadness prefers depression exercises"},
		{4, NeutralEmotions(), 0, []int{1, 2, 3}, PriorityEmotionalRegulation, "Default limit"},
		{1, NeutralEmotions(), 5, []int{5, 6, 7}, PriorityMaintenance, "Low risk maintenance"},
		{0, EmotionDistribution{EmotionFear: 1}, 1, []int{5}, PriorityMaintenance, "Fear has no anxiety exercise at low risk"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			recs := Recommend(tt.level, tt.emotions, tt.limit)
			if got := exerciseIDs(recs); !reflect.DeepEqual(got, tt.ids) {
				t.Errorf("ids = %v, want %v", got, tt.ids)
			}
			for _, r := range recs {
				if r.Priority != tt.priority || r.Reason == "" {
					t.Errorf("exercise %d: priority %q reason %q", r.ID, r.Priority, r.Reason)
				}
			}
		})
	}
}

func TestRecommendCustomCatalog(t *testing.T) {
	r := NewRecommender(Exercise{ID: 42, Title: "Stretch", Category: CategoryGeneral, Difficulty: Beginner})
	if got := exerciseIDs(r.Recommend(0, nil, 3)); !reflect.DeepEqual(got, []int{42}) {
		t.Errorf("ids = %v", got)
	}
	if got := r.Recommend(9, nil, 3); len(got) != 0 {
		t.Errorf("expected no high risk exercises, got %v", exerciseIDs(got))
	}
	if got := exerciseIDs(NewRecommender().DefaultRecommendations(2)); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("DefaultRecommendations = %v", got)
	}
}

func TestEmergencyResources(t *testing.T) {
	tests := []struct {
		level     float64
		present   bool
		emergency bool
		resources int
		desc      string
	}{
		{9.5, true, true, 3, "High risk"},
		{7, true, true, 3, "High threshold"},
		{6.99, true, false, 2, "Medium risk"},
		{4, true, false, 2, "Medium threshold"},
		{3.99, false, false, 0, "Low risk"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			bundle := EmergencyResources(tt.level)
			if (bundle != nil) != tt.present {
				t.Fatalf("bundle present = %v, want %v", bundle != nil, tt.present)
			}
			if bundle == nil {
				return
			}
			if bundle.Emergency != tt.emergency || len(bundle.Resources) != tt.resources {
				t.Errorf("emergency %v with %d resources", bundle.Emergency, len(bundle.Resources))
			}
			if bundle.Emergency && len(bundle.AdditionalAdvice) == 0 {
				t.Error("crisis bundle without advice")
			}
		})
	}

	// Callers cannot alter the shared resource list
	EmergencyResources(9).Resources[0].Number = "000"
	if EmergencyResources(9).Resources[0].Number == "000" {
		t.Error("resource list was modified")
	}
}
