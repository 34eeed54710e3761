package stats

// Kind names a statistic that has flavour text.
type Kind int

const (
	KindTotal Kind = iota
	KindStreak
	KindAvg
	KindLongest
	KindDailyMax
)

type tier struct {
	below float64
	text  string
}

var tiers = map[Kind][]tier{
	KindTotal: {
		{1, "Starting fresh"},
		{10, "Just getting started"},
		{50, "Building momentum"},
		{100, "Quite the enthusiast"},
		{200, "Dedicated tracker"},
	},
	KindStreak: {
		{1, "Taking a break"},
		{3, "Getting into rhythm"},
		{7, "Consistent tracker"},
		{14, "Dedication personified"},
		{30, "Unstoppable force"},
	},
	KindAvg: {
		{1, "Occasional practice"},
		{2, "Regular enthusiast"},
		{3, "Devoted practitioner"},
		{5, "Elite-level focus"},
	},
}

var topTier = map[Kind]string{
	KindTotal:  "Legendary status",
	KindStreak: "Impressive persistence",
	KindAvg:    "Exceptional dedication",
}

// Describe returns a short flavour line for the statistic kind of r.
func Describe(kind Kind, r Result) string {
	switch kind {
	case KindTotal:
		return describeTier(kind, float64(r.Total))
	case KindStreak:
		return describeTier(kind, float64(r.Streak))
	case KindAvg:
		if r.Avg == 0 {
			return "The calm"
		}
		return describeTier(kind, r.Avg)
	case KindLongest:
		switch {
		case r.Longest == 0:
			return "Yet to begin"
		case r.Longest == r.Streak:
			return "You're at your peak!"
		default:
			return "Your personal best!"
		}
	case KindDailyMax:
		switch {
		case r.DailyMax > 5:
			return "Impressive stamina!"
		case r.DailyMax > 3:
			return "Notable achievement!"
		case r.DailyMax > 0:
			return "Personal record"
		default:
			return "Yet to be set"
		}
	}
	return ""
}

func describeTier(kind Kind, v float64) string {
	for _, t := range tiers[kind] {
		if v < t.below {
			return t.text
		}
	}
	return topTier[kind]
}

// SessionLabel names a session by its length in minutes.
func SessionLabel(minutes float64) string {
	switch {
	case minutes <= 5:
		return "Quick session"
	case minutes <= 15:
		return "Brief session"
	case minutes <= 30:
		return "Standard session"
	case minutes <= 60:
		return "Extended session"
	default:
		return "Marathon session"
	}
}
