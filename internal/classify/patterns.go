package classify

import (
	"regexp"

	"github.com/pejman93/echopulse/internal/domain"
)

// Pattern is one immutable weighted linguistic rule owned by a category.
// Weight is in (0, 1] and encodes rule confidence. Rules are additive and
// may overlap, so the same text can match rules from several categories.
type Pattern struct {
	Expr        *regexp.Regexp
	Weight      float64
	Category    domain.EmotionCategory
	Description string
}

// Library holds the full pattern set. Enumeration order is deterministic:
// categories in domain.Categories() order, rules in declaration order within
// a category. Immutable after construction.
type Library struct {
	patterns []Pattern
}

// Patterns returns the full rule set in stable order.
func (l *Library) Patterns() []Pattern {
	return l.patterns
}

// ForCategory returns the rules owned by the given category, in stable order.
func (l *Library) ForCategory(cat domain.EmotionCategory) []Pattern {
	var out []Pattern
	for _, p := range l.patterns {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

func rule(expr string, weight float64, cat domain.EmotionCategory, desc string) Pattern {
	return Pattern{
		Expr:        regexp.MustCompile(expr),
		Weight:      weight,
		Category:    cat,
		Description: desc,
	}
}

// DefaultLibrary builds the built-in rule set.
func DefaultLibrary() *Library {
	var patterns []Pattern

	hope := []Pattern{
		rule(`\b(happy|joy|delighted|thrilled|excited|elated)\b`, 0.9, domain.Hope, "Explicit happiness"),
		rule(`\b(will|going to|plan to|hope|dream|wish)\b`, 0.8, domain.Hope, "Future-oriented language"),
		rule(`\b(maybe|could|might|possibility|chance)\b`, 0.6, domain.Hope, "Possibility language"),
		rule(`\b(learn|grow|improve|better|progress)\b`, 0.7, domain.Hope, "Growth language"),
		rule(`\b(goal|ambition|vision|future|tomorrow)\b`, 0.9, domain.Hope, "Aspiration words"),
		rule(`\b(excited|thrilled|eager|looking forward|can't wait)\b`, 0.8, domain.Hope, "Excitement indicators"),
	}

	sorrow := []Pattern{
		rule(`\b(sad|depressed|miserable|unhappy|gloomy|down)\b`, 0.9, domain.Sorrow, "Explicit sadness"),
		rule(`\b(lost|gone|never again|no more|ended)\b`, 0.8, domain.Sorrow, "Loss language"),
		rule(`\b(should have|if only|regret|mistake|wrong)\b`, 0.7, domain.Sorrow, "Regret language"),
		rule(`\b(hurt|pain|broken|damaged|wounded)\b`, 0.9, domain.Sorrow, "Pain language"),
		rule(`\b(over|finished|done|impossible|hopeless)\b`, 0.8, domain.Sorrow, "Finality language"),
		rule(`\b(demolished|destroyed|torn down|knocked down)\b`, 0.9, domain.Sorrow, "Destruction language"),
		rule(`\b(childhood home|family home|grew up|where i lived)\b`, 0.7, domain.Sorrow, "Nostalgic places"),
		rule(`\b(broke.*inside|broke.*heart|something.*inside.*me)\b`, 0.95, domain.Sorrow, "Internal breaking"),
		rule(`\b(watching.*demolished|seeing.*destroyed|witnessed.*torn)\b`, 0.9, domain.Sorrow, "Witnessing destruction"),
		rule(`\b(memories|childhood|growing up).*\b(lost|gone|destroyed)\b`, 0.9, domain.Sorrow, "Lost memories"),
		rule(`\b(home.*demolished|house.*torn|building.*destroyed)\b`, 0.85, domain.Sorrow, "Home destruction"),
		rule(`\b(terrified|scared|afraid|frightened|anxious|worried)\b`, 0.7, domain.Sorrow, "Fear indicators"),
	}

	transformative := []Pattern{
		rule(`\b(learned|realized|understand now|see that)\b`, 0.8, domain.Transformative, "Learning language"),
		rule(`\b(healing|moving on|getting better|finding strength)\b`, 0.9, domain.Transformative, "Recovery language"),
		rule(`\b(growth|journey|transformation|evolution|change for the better)\b`, 0.8, domain.Transformative, "Personal development"),
		rule(`\b(overcame|conquered|survived|made it through|came out stronger)\b`, 0.9, domain.Transformative, "Overcoming language"),
		rule(`\b(but now|however now|although now|despite that.*now)\b`, 0.7, domain.Transformative, "Temporal transition"),
		rule(`\b(used to.*but now|once.*but now|before.*but now)\b`, 0.8, domain.Transformative, "Before/after transition"),
		rule(`\b(death|loss|divorce|tragedy|accident|illness).*\b(taught|showed|learned|made me|helped me|forced me)\b`, 0.95, domain.Transformative, "Learning from tragedy"),
		rule(`\b(taught me|showed me|made me realize|helped me understand|forced me to)\b`, 0.9, domain.Transformative, "Explicit learning"),
		rule(`\b(devastating|terrible|heartbreak|cancer|losing).*\b(but|however|yet).*\b(discover|learn|realize|understand|appreciate)\b`, 0.95, domain.Transformative, "Growth through adversity"),
		rule(`\b(although|despite|even though).*\b(ended|failed|lost).*\b(learning|discovering|finding|becoming)\b`, 0.9, domain.Transformative, "Growth despite loss"),
		rule(`\b(grateful|thankful).*\b(taught|showed|learned)\b`, 0.8, domain.Transformative, "Gratitude for lessons"),
	}

	ambivalent := []Pattern{
		rule(`\b(excited.*but.*terrified|thrilled.*but.*scared|happy.*but.*sad)\b`, 0.95, domain.Ambivalent, "Simultaneous opposing emotions"),
		rule(`\b(love.*but.*hate|want.*but.*don't|yes.*but.*no)\b`, 0.9, domain.Ambivalent, "Love-hate dynamics"),
		rule(`\b(part of me.*but.*part of me|on one hand.*on the other)\b`, 0.9, domain.Ambivalent, "Internal conflict"),
		rule(`\b(both.*and.*|feels like both.*and|like both.*and)\b`, 0.98, domain.Ambivalent, "Explicit dual emotions"),
		rule(`\b(both an adventure and.*mistake|both.*and.*terrible|both.*and.*wonderful)\b`, 0.99, domain.Ambivalent, "Both positive and negative"),
		rule(`\b(mixed feelings|conflicted|torn between|can't decide)\b`, 0.95, domain.Ambivalent, "Explicit mixed feelings"),
		rule(`\b(bittersweet|love-hate|push-pull|back and forth)\b`, 0.9, domain.Ambivalent, "Ambivalent descriptors"),
		rule(`\b(simultaneously.*and|at the same time.*but)\b`, 0.85, domain.Ambivalent, "Simultaneous feelings"),
		rule(`\b(excited.*afraid|happy.*worried|hopeful.*doubtful)\b`, 0.85, domain.Ambivalent, "Emotional contradictions"),
		rule(`\b(want.*scared|eager.*nervous|looking forward.*dreading)\b`, 0.85, domain.Ambivalent, "Approach-avoidance conflict"),
		rule(`\b(but|however|although|yet|still).*\b(excited|scared|happy|sad|worried|thrilled)\b`, 0.6, domain.Ambivalent, "Emotional contrasts"),
		rule(`\b(excited|happy|thrilled|eager).*\b(but|however|although|yet).*\b(scared|afraid|worried|nervous|terrified)\b`, 0.9, domain.Ambivalent, "Positive-negative emotional contrast"),
		rule(`\b(don't know how to feel|not sure.*feel|complicated.*emotions)\b`, 0.8, domain.Ambivalent, "Emotional uncertainty"),
		rule(`\b(should be happy but|should be excited but|supposed to feel)\b`, 0.8, domain.Ambivalent, "Expected vs actual emotions"),
		rule(`\b(love.*but.*miss|want.*but.*afraid|proud.*but.*guilty)\b`, 0.9, domain.Ambivalent, "Relationship ambivalence"),
	}

	reflective := []Pattern{
		rule(`\b(thinking about|pondering|contemplating|reflecting on|considering)\b`, 0.8, domain.ReflectiveNeutral, "Contemplative processes"),
		rule(`\b(wonder|curious|interesting to note|worth noting|observe)\b`, 0.7, domain.ReflectiveNeutral, "Intellectual curiosity"),
		rule(`\b(seems|appears|looks like|strikes me|occurs to me)\b`, 0.6, domain.ReflectiveNeutral, "Observational language"),
		rule(`\b(questioning|question|examine|reexamine).*\b(values|beliefs|assumptions|faith|principles)\b`, 0.95, domain.ReflectiveNeutral, "Belief examination"),
		rule(`\b(what i.*believe|what i.*think|what really matters|what.*means)\b`, 0.9, domain.ReflectiveNeutral, "Personal philosophy"),
		rule(`\b(grew up with|raised to believe|always thought).*\b(but now|question|wonder|different)\b`, 0.9, domain.ReflectiveNeutral, "Belief evolution"),
		rule(`\b(find myself.*questioning|find myself.*wondering|find myself.*thinking)\b`, 0.95, domain.ReflectiveNeutral, "Self-reflection discovery"),
		rule(`\b(analyzing|examining|evaluating|assessing|reviewing)\b`, 0.8, domain.ReflectiveNeutral, "Analytical processes"),
		rule(`\b(perspective|viewpoint|angle|way of looking|lens)\b`, 0.7, domain.ReflectiveNeutral, "Perspective-taking"),
		rule(`\b(objectively|from a distance|stepping back|big picture)\b`, 0.8, domain.ReflectiveNeutral, "Objective stance"),
		rule(`\b(notice|observe|see that|recognize|acknowledge)\b`, 0.6, domain.ReflectiveNeutral, "Neutral observation"),
		rule(`\b(fact|reality|truth|situation|circumstances)\b`, 0.6, domain.ReflectiveNeutral, "Factual framing"),
		rule(`\b(simply|just|merely|basically|essentially)\b`, 0.5, domain.ReflectiveNeutral, "Simplifying language"),
		rule(`\b(meaning|purpose|significance|implications|consequences)\b`, 0.75, domain.ReflectiveNeutral, "Abstract concepts"),
		rule(`\b(life|existence|human nature|the way things are|how things work)\b`, 0.7, domain.ReflectiveNeutral, "Philosophical topics"),
		rule(`\b(pattern|cycle|process|system|mechanism)\b`, 0.6, domain.ReflectiveNeutral, "Systems thinking"),
		rule(`\b(often wonder|sometimes think|makes me wonder|interesting how)\b`, 0.8, domain.ReflectiveNeutral, "Contemplative wondering"),
		rule(`\b(perspective changes|experience more|get older|as you)\b`, 0.75, domain.ReflectiveNeutral, "Experiential wisdom"),
		rule(`\b(carefully|thoughtfully|deliberately|methodically|systematically)\b`, 0.7, domain.ReflectiveNeutral, "Measured approach"),
		rule(`\b(balance|weigh|consider|factor in|take into account)\b`, 0.7, domain.ReflectiveNeutral, "Balanced thinking"),
		// RE2 has no lookahead, so this rule keeps only the verbs that do not
		// collide with emotion phrasing like "see that" or "get excited".
		rule(`\b(understand|comprehend|grasp)\b`, 0.5, domain.ReflectiveNeutral, "Neutral understanding"),
		rule(`\b(makes sense|reasonable|logical|rational|practical)\b`, 0.6, domain.ReflectiveNeutral, "Rational evaluation"),
		rule(`\b(choices|decisions|paths|different.*life|if i had)\b`, 0.7, domain.ReflectiveNeutral, "Life contemplation"),
		rule(`\b(stories.*connected|meaningful life|live.*meaningful)\b`, 0.8, domain.ReflectiveNeutral, "Meaning-making"),
	}

	patterns = append(patterns, hope...)
	patterns = append(patterns, sorrow...)
	patterns = append(patterns, transformative...)
	patterns = append(patterns, ambivalent...)
	patterns = append(patterns, reflective...)

	return &Library{patterns: patterns}
}
