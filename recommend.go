package mindsight

import (
	"sort"
)

// DefaultRecommendationLimit is used when a caller passes a limit <= 0.
const DefaultRecommendationLimit = 3

// Exercise categories.
const (
	CategoryAnxiety    = "anxiety"
	CategoryDepression = "depression"
	CategoryStress     = "stress"
	CategoryGeneral    = "general"
)

// Difficulty levels.
const (
	Beginner     = "beginner"
	Intermediate = "intermediate"
)

// Priority labels attached to recommendations.
const (
	PriorityImmediateCalm       = "immediate_calm"
	PriorityEmotionalRegulation = "emotional_regulation"
	PriorityMaintenance         = "maintenance"
)

// An Exercise is a self-help activity from the static catalog.
type Exercise struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	DurationMinutes int    `json:"duration_minutes"`
	Difficulty      string `json:"difficulty"`
	Content         string `json:"content"`
	Icon            string `json:"icon"`
}

// A Recommendation is an exercise chosen for a message.
type Recommendation struct {
	Exercise
	Priority string `json:"priority"`
	Reason   string `json:"reason"`
}

// A Resource is a support line.
type Resource struct {
	Name      string `json:"name"`
	Number    string `json:"number"`
	Available string `json:"available"`
}

// A ResourceBundle is the support information shown for elevated risk.
type ResourceBundle struct {
	Emergency        bool       `json:"emergency"`
	Message          string     `json:"message"`
	Resources        []Resource `json:"resources"`
	AdditionalAdvice []string   `json:"additional_advice,omitempty"`
}

var exercises = []Exercise{
	{
		ID:              1,
		Title:           "Deep Breathing Exercise",
		Description:     "5-minute guided breathing to reduce anxiety",
		Category:        CategoryAnxiety,
		DurationMinutes: 5,
		Difficulty:      Beginner,
		Content:         "Find a comfortable position. Breathe in slowly through your nose for 4 seconds, hold for 4 seconds, exhale slowly through your mouth for 6 seconds. Repeat 10 times.",
		Icon:            "🌬️",
	},
	{
		ID:              2,
		Title:           "Gratitude Journaling",
		Description:     "Write down three things you are grateful for",
		Category:        CategoryDepression,
		DurationMinutes: 10,
		Difficulty:      Beginner,
		Content:         "Take a moment to reflect on positive aspects of your life. Write down three specific things you feel grateful for today, no matter how small.",
		Icon:            "📝",
	},
	{
		ID:              3,
		Title:           "5-4-3-2-1 Grounding Technique",
		Description:     "Use your senses to stay present",
		Category:        CategoryAnxiety,
		DurationMinutes: 3,
		Difficulty:      Beginner,
		Content:         "Name 5 things you can see, 4 things you can touch, 3 things you can hear, 2 things you can smell, and 1 thing you can taste.",
		Icon:            "🌍",
	},
	{
		ID:              4,
		Title:           "Positive Affirmations",
		Description:     "Repeat positive statements about yourself",
		Category:        CategoryDepression,
		DurationMinutes: 5,
		Difficulty:      Beginner,
		Content:         `Repeat these affirmations: "I am worthy of love and happiness," "I am strong and capable," "I am doing my best," "This feeling is temporary."`,
		Icon:            "💫",
	},
	{
		ID:              5,
		Title:           "Body Scan Meditation",
		Description:     "Progressive relaxation through body awareness",
		Category:        CategoryStress,
		DurationMinutes: 10,
		Difficulty:      Intermediate,
		Content:         "Close your eyes. Slowly bring attention to each part of your body starting from your toes up to your head. Notice any tension and consciously relax each area.",
		Icon:            "🧘",
	},
	{
		ID:              6,
		Title:           "Mindful Walk",
		Description:     "A short walk paying attention to each step",
		Category:        CategoryGeneral,
		DurationMinutes: 15,
		Difficulty:      Beginner,
		Content:         "Walk at an easy pace. Notice the feeling of your feet touching the ground, the air on your skin and the sounds around you. When your mind wanders, gently return to your steps.",
		Icon:            "🚶",
	},
	{
		ID:              7,
		Title:           "Evening Wind-Down",
		Description:     "A calming routine to prepare for rest",
		Category:        CategoryGeneral,
		DurationMinutes: 10,
		Difficulty:      Beginner,
		Content:         "Put screens away. Dim the lights, stretch gently for a few minutes, and write down one thing that went well today before going to bed.",
		Icon:            "🌙",
	},
}

var (
	crisisResources = []Resource{
		{Name: "National Suicide Prevention Lifeline", Number: "1-800-273-8255", Available: "24/7"},
		{Name: "Crisis Text Line", Number: "Text HOME to 741741", Available: "24/7"},
		{Name: "Emergency Services", Number: "911", Available: "24/7"},
	}
	generalResources = []Resource{
		{Name: "SAMHSA Helpline", Number: "1-800-662-4357", Available: "24/7"},
		{Name: "NAMI Helpline", Number: "1-800-950-6264", Available: "Mon-Fri 10AM-6PM ET"},
	}
	crisisAdvice = []string{
		"You are not alone",
		"This feeling will pass",
		"Reach out to someone you trust",
	}
)

// emotionAffinity maps a dominant emotion onto the exercise category that
// suits it best.
var emotionAffinity = map[string]string{
	EmotionSadness: CategoryDepression,
	EmotionFear:    CategoryAnxiety,
	EmotionAnger:   CategoryStress,
}

type tier struct {
	categories    []string
	priority      string
	reason        string
	beginnerFirst bool
}

func tierFor(level float64) tier {
	switch {
	case level >= HighRiskThreshold:
		return tier{
			categories:    []string{CategoryAnxiety, CategoryStress},
			priority:      PriorityImmediateCalm,
			reason:        "Immediate calming technique",
			beginnerFirst: true,
		}
	case level >= MediumRiskThreshold:
		return tier{
			categories: []string{CategoryAnxiety, CategoryDepression, CategoryStress},
			priority:   PriorityEmotionalRegulation,
			reason:     "Emotional regulation",
		}
	default:
		return tier{
			categories: []string{CategoryStress, CategoryGeneral},
			priority:   PriorityMaintenance,
			reason:     "Mental wellness maintenance",
		}
	}
}

// Recommender selects exercises from a fixed catalog.
type Recommender struct {
	exercises []Exercise
}

// NewRecommender creates a Recommender over catalog, or over the built-in
// exercises when catalog is empty.
func NewRecommender(catalog ...Exercise) *Recommender {
	if len(catalog) == 0 {
		catalog = exercises
	}
	return &Recommender{exercises: append([]Exercise(nil), catalog...)}
}

// Exercises returns a copy of the catalog.
func (r *Recommender) Exercises() []Exercise {
	return append([]Exercise(nil), r.exercises...)
}

// Recommend picks up to limit exercises for a risk level. Within the tier,
// exercises matching the dominant emotion come first; ties keep catalog
// order.
func (r *Recommender) Recommend(level float64, emotions EmotionDistribution, limit int) []Recommendation {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	t := tierFor(level)

	var pool []Exercise
	for _, ex := range r.exercises {
		if contains(t.categories, ex.Category) {
			pool = append(pool, ex)
		}
	}

	preferred := ""
	if len(emotions) > 0 {
		preferred = emotionAffinity[emotions.Dominant()]
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if t.beginnerFirst {
			bi, bj := pool[i].Difficulty == Beginner, pool[j].Difficulty == Beginner
			if bi != bj {
				return bi
			}
		}
		pi, pj := pool[i].Category == preferred, pool[j].Category == preferred
		return pi && !pj
	})

	if len(pool) > limit {
		pool = pool[:limit]
	}
	out := make([]Recommendation, len(pool))
	for i, ex := range pool {
		out[i] = Recommendation{Exercise: ex, Priority: t.priority, Reason: t.reason}
	}
	return out
}

// DefaultRecommendations returns the first limit catalog exercises.
func (r *Recommender) DefaultRecommendations(limit int) []Recommendation {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	n := minInt(limit, len(r.exercises))
	out := make([]Recommendation, n)
	for i := 0; i < n; i++ {
		out[i] = Recommendation{Exercise: r.exercises[i], Priority: PriorityMaintenance, Reason: "Mental wellness maintenance"}
	}
	return out
}

// EmergencyResources returns the support bundle for a risk level, or nil
// below the medium threshold.
func EmergencyResources(level float64) *ResourceBundle {
	switch {
	case level >= HighRiskThreshold:
		return &ResourceBundle{
			Emergency:        true,
			Message:          "Your safety is important. Please contact one of these resources immediately:",
			Resources:        append([]Resource(nil), crisisResources...),
			AdditionalAdvice: append([]string(nil), crisisAdvice...),
		}
	case level >= MediumRiskThreshold:
		return &ResourceBundle{
			Emergency: false,
			Message:   "Consider reaching out for additional support:",
			Resources: append([]Resource(nil), generalResources...),
		}
	}
	return nil
}

var defaultRecommender = NewRecommender()

// Recommend picks exercises from the built-in catalog.
func Recommend(level float64, emotions EmotionDistribution, limit int) []Recommendation {
	return defaultRecommender.Recommend(level, emotions, limit)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
