package domain

// EmotionCategory is the closed set of emotion labels echopulse assigns.
// Every classification yields exactly one category; there is no "none" state.
type EmotionCategory string

const (
	Hope              EmotionCategory = "hope"
	Sorrow            EmotionCategory = "sorrow"
	Transformative    EmotionCategory = "transformative"
	Ambivalent        EmotionCategory = "ambivalent"
	ReflectiveNeutral EmotionCategory = "reflective_neutral"
)

// Categories returns all emotion categories in stable order. Scoring
// tie-breaks depend on this order, so it must not change between runs.
func Categories() []EmotionCategory {
	return []EmotionCategory{Hope, Sorrow, Transformative, Ambivalent, ReflectiveNeutral}
}

// Valid reports whether c is one of the five defined categories.
func (c EmotionCategory) Valid() bool {
	switch c {
	case Hope, Sorrow, Transformative, Ambivalent, ReflectiveNeutral:
		return true
	}
	return false
}

func (c EmotionCategory) String() string {
	return string(c)
}
